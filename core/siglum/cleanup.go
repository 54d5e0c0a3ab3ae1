package siglum

import (
	"regexp"
	"strings"
)

// witnessWithParenthesesPattern matches a base siglum followed by a
// comma-separated suffix list in parentheses, e.g. "69(C1,C2)".
var witnessWithParenthesesPattern = regexp.MustCompile(`(\S+)\(([^()]*)\)`)

// Cleanup normalizes a raw witness string into space-separated sigla.
// The steps run in a fixed order because later steps assume the earlier
// normalizations; the whole pipeline is idempotent on clean input.
func Cleanup(raw string) string {
	// The collations sometimes erroneously use periods for spaces.
	s := strings.ReplaceAll(raw, ".", " ")
	// Square brackets around witnesses and right angle brackets after
	// versional witnesses are markup noise.
	s = strings.ReplaceAll(s, "[", "")
	s = strings.ReplaceAll(s, "]", "")
	s = strings.ReplaceAll(s, ">", "")
	// Erroneous spaces after colons and doubled spaces.
	s = strings.ReplaceAll(s, ": ", ":")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	// Escaped spaces at the end of the witness list.
	s = strings.ReplaceAll(s, " &nbsp;", "")
	s = ExpandParentheticalSuffixes(s)
	s = NormalizeVersionalSigla(s)
	return strings.TrimSpace(s)
}

// ExpandParentheticalSuffixes rewrites every base siglum followed by a
// parenthesized suffix list as one siglum per suffix:
// "69(C1,C2) 104" becomes "69C1 69C2 104".
func ExpandParentheticalSuffixes(witStr string) string {
	return witnessWithParenthesesPattern.ReplaceAllStringFunc(witStr, func(m string) string {
		sub := witnessWithParenthesesPattern.FindStringSubmatch(m)
		base := sub[1]
		suffixes := strings.Split(strings.ReplaceAll(sub[2], " ", ""), ",")
		expanded := make([]string, 0, len(suffixes))
		for _, suffix := range suffixes {
			expanded = append(expanded, base+suffix)
		}
		return strings.Join(expanded, " ")
	})
}

// Per-version patterns for sigla concatenated after the version prefix.
var (
	latinVersionPattern    = regexp.MustCompile(`^(V|AU|HIL|QU|\d+)`)
	syriacVersionPattern   = regexp.MustCompile(`^(A|P|HT|HM|HA|H)(mss|ms)*`)
	copticVersionPattern   = regexp.MustCompile(`^(S|B|M|F)(mss|ms)*`)
	slavonicVersionPattern = regexp.MustCompile(`^(Ch|E|M|O|Si|St|V)`)
)

// versionWitnessPattern returns the per-language siglum pattern for a
// version prefix, or nil when the version cites no sub-witnesses.
func versionWitnessPattern(prefix string) *regexp.Regexp {
	switch prefix {
	case "L":
		return latinVersionPattern
	case "S":
		return syriacVersionPattern
	case "K":
		return copticVersionPattern
	case "Sl":
		return slavonicVersionPattern
	}
	return nil
}

// splitConcatenatedSigla splits a run of concatenated versional sigla
// into its components using the given per-language pattern. Trailing
// text that matches nothing is dropped; a nil pattern keeps the run
// whole.
func splitConcatenatedSigla(s string, re *regexp.Regexp) []string {
	if s == "" {
		return nil
	}
	if re == nil {
		return []string{s}
	}
	var sigla []string
	rest := s
	for rest != "" {
		m := re.FindString(rest)
		if m == "" {
			break
		}
		sigla = append(sigla, m)
		rest = rest[len(m):]
	}
	if len(sigla) == 0 {
		// Nothing in the run matched the language pattern (e.g. a
		// singleton prefix already normalized to "S:S"); keep it whole
		// instead of dropping the token.
		return []string{s}
	}
	return sigla
}

// NormalizeVersionalSigla rewrites all versional sigla in a witness
// string to the explicit "prefix:siglum" form. The scan is a left-to-right
// state machine with a single current-version context: a version-start
// token opens (or re-opens) the context, and every bare token that
// follows inherits the context prefix until the next version-start token.
// Tokens before the first version-start token pass through untouched.
func NormalizeVersionalSigla(witStr string) string {
	tokens := strings.Fields(witStr)
	normalized := make([]string, 0, len(tokens))
	prefix := ""
	for _, token := range tokens {
		switch {
		case versionStartPattern.MatchString(token):
			if i := strings.Index(token, ":"); i >= 0 {
				// The part before the colon is the new context; the part
				// after it may hold several sigla run together.
				prefix = token[:i]
				for _, sig := range splitConcatenatedSigla(token[i+1:], versionWitnessPattern(prefix)) {
					normalized = append(normalized, prefix+":"+sig)
				}
			} else {
				// A singleton versional witness: the version attests as a
				// whole, cited under its own prefix.
				prefix = token
				normalized = append(normalized, token+":"+token)
			}
		case prefix != "":
			normalized = append(normalized, prefix+":"+token)
		default:
			normalized = append(normalized, token)
		}
	}
	return strings.Join(normalized, " ")
}
