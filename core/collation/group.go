package collation

import (
	"strings"

	"vmr2tei/core/siglum"
	"vmr2tei/core/vmr"
)

// DefaultGroupToken is the shorthand siglum for the Byzantine bloc.
const DefaultGroupToken = "Byz"

// coveredManuscripts computes the set of manuscript base sigla already
// cited by any reading of the segment. Correctors do not count as
// coverage: a corrector attests its own hand, not the manuscript's text.
// Witness strings must already be cleaned.
func coveredManuscripts(seg *vmr.Segment, suffixes *suffixRules, known func(string) bool) map[string]bool {
	covered := make(map[string]bool)
	for _, sr := range seg.Readings {
		for _, wit := range strings.Fields(sr.Witnesses) {
			if !siglum.IsManuscript(wit) || siglum.IsCorrector(wit) {
				continue
			}
			covered[siglum.BaseSiglum(wit, suffixes.manuscript, known)] = true
		}
	}
	return covered
}

// expandGroupSiglum replaces the group token in each reading of the
// segment with the members of the configured group list that are not
// covered by any reading in the unit. The covered set must be computed
// across all readings before any rewrite, so expansion is a strict
// two-pass operation per unit. An empty membership list makes the token
// vanish.
func expandGroupSiglum(seg *vmr.Segment, token string, members []string, covered map[string]bool) {
	remaining := make([]string, 0, len(members))
	for _, member := range members {
		if !covered[member] {
			remaining = append(remaining, member)
		}
	}
	replacement := strings.Join(remaining, " ")
	for _, sr := range seg.Readings {
		if !strings.Contains(sr.Witnesses, token) {
			continue
		}
		expanded := strings.ReplaceAll(sr.Witnesses, token, replacement)
		for strings.Contains(expanded, "  ") {
			expanded = strings.ReplaceAll(expanded, "  ", " ")
		}
		sr.Witnesses = strings.TrimSpace(expanded)
	}
}
