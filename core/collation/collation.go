// Package collation builds the internal model of an ECM apparatus
// collation: a typed, deduplicated witness registry and an ordered list
// of variation units with their readings.
//
// The build is strictly phased. Phase one cleans every reading's witness
// string in place and expands the Byzantine group siglum per unit. Phase
// two scans the cleaned strings once to populate the witness registry,
// then freezes it. Phase three rewrites the witness lists against the
// frozen registry, dropping sigla that resolve to no known witness.
// Phase four assembles the variation units. No phase may start before
// the previous one completes, because base-siglum resolution consults
// the registry's current contents.
package collation

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"vmr2tei/core/errors"
	"vmr2tei/core/siglum"
	"vmr2tei/core/vmr"
)

// Options configures a collation build.
type Options struct {
	// GroupToken is the group siglum to expand; DefaultGroupToken when
	// empty.
	GroupToken string
	// GroupMembers is the book-specific membership list for the group
	// siglum, in canonical order. An empty list expands the token to
	// nothing.
	GroupMembers []string
	// VersionOrder is the version-language ordering for witness sort
	// keys; siglum.VersionPrefixes when nil.
	VersionOrder []string
	// SingularToSubreading retypes untyped readings with at most one
	// supporting witness as subreadings.
	SingularToSubreading bool
	// ManuscriptSuffixes, VersionSuffixes, and PatristicSuffixes override
	// the built-in ignored-suffix patterns.
	ManuscriptSuffixes *regexp.Regexp
	VersionSuffixes    *regexp.Regexp
	PatristicSuffixes  *regexp.Regexp
	// Logger receives build warnings; slog.Default when nil.
	Logger *slog.Logger
}

// suffixRules bundles the resolved ignored-suffix patterns.
type suffixRules struct {
	manuscript *regexp.Regexp
	version    *regexp.Regexp
	patristic  *regexp.Regexp
}

func (o *Options) suffixRules() *suffixRules {
	rules := &suffixRules{
		manuscript: o.ManuscriptSuffixes,
		version:    o.VersionSuffixes,
		patristic:  o.PatristicSuffixes,
	}
	if rules.manuscript == nil {
		rules.manuscript = siglum.IgnoredManuscriptSuffixes
	}
	if rules.version == nil {
		rules.version = siglum.IgnoredVersionSuffixes
	}
	if rules.patristic == nil {
		rules.patristic = siglum.IgnoredPatristicSuffixes
	}
	return rules
}

func (o *Options) groupToken() string {
	if o.GroupToken == "" {
		return DefaultGroupToken
	}
	return o.GroupToken
}

func (o *Options) versionOrder() []string {
	if o.VersionOrder == nil {
		return siglum.VersionPrefixes
	}
	return o.VersionOrder
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Collation is the aggregate root: the frozen witness registry and the
// variation units in source order.
type Collation struct {
	// Book names the NT book this collation covers.
	Book string
	// Registry holds the finalized witness list.
	Registry *Registry
	// Units holds the variation units in source order.
	Units []*VariationUnit
}

// Build constructs a Collation from a parsed VMR document. The document's
// witness strings are normalized in place as a side effect.
func Build(doc *vmr.Document, book string, opts Options) (*Collation, error) {
	c := &Collation{
		Book:     book,
		Registry: NewRegistry(opts.versionOrder()),
	}
	rules := opts.suffixRules()
	if err := c.cleanupWitnessLists(doc, &opts, rules); err != nil {
		return nil, err
	}
	c.registerWitnesses(doc, rules)
	c.Registry.Finalize()
	c.postprocessWitnessLists(doc, rules)
	c.assembleUnits(doc, &opts)
	return c, nil
}

// cleanupWitnessLists normalizes every reading's witness string and
// expands the group siglum unit by unit. A reading without a witnesses
// attribute is fatal for the conversion and is reported with its unit
// and label.
func (c *Collation) cleanupWitnessLists(doc *vmr.Document, opts *Options, rules *suffixRules) error {
	token := opts.groupToken()
	for _, seg := range doc.Segments {
		for _, sr := range seg.Readings {
			if !sr.HasWitnesses {
				return &errors.MissingAttributeError{
					Unit:      unitID(seg),
					Reading:   cleanLabel(sr.Label),
					Attribute: "witnesses",
				}
			}
			sr.Witnesses = siglum.Cleanup(sr.Witnesses)
		}
		covered := coveredManuscripts(seg, rules, c.Registry.Has)
		expandGroupSiglum(seg, token, opts.GroupMembers, covered)
	}
	return nil
}

// registerWitnesses populates the registry in a single left-to-right,
// top-to-bottom scan over every cleaned, group-expanded witness string.
func (c *Collation) registerWitnesses(doc *vmr.Document, rules *suffixRules) {
	for _, seg := range doc.Segments {
		for _, sr := range seg.Readings {
			for _, wit := range strings.Fields(sr.Witnesses) {
				c.registerWitness(wit, rules)
			}
		}
	}
}

// registerWitness classifies one siglum and registers its canonical
// form. Divided-testimony version and patristic sigla register nothing:
// their attestation cannot be attributed to the witness.
func (c *Collation) registerWitness(wit string, rules *suffixRules) {
	if c.Registry.Has(wit) {
		return
	}
	witID := wit
	witType := siglum.Classify(witID)
	switch witType {
	case siglum.Papyrus, siglum.Majuscule, siglum.Minuscule, siglum.Lectionary:
		witID = siglum.BaseSiglum(witID, rules.manuscript, c.Registry.Has)
	case siglum.Version:
		// Versional manuscripts (e.g. Old Latin) carry the same ignored
		// suffixes as Greek manuscripts.
		if siglum.IsManuscript(witID) {
			witID = siglum.BaseSiglum(witID, rules.manuscript, c.Registry.Has)
		}
		if rules.version.MatchString(wit) {
			return
		}
	case siglum.Father:
		if rules.patristic.MatchString(wit) {
			return
		}
	}
	if siglum.IsManuscript(witID) && siglum.IsCorrector(witID) {
		witType = siglum.Corrector
		witID = siglum.FoldFirstHandCorrector(witID)
	}
	c.Registry.Register(witID, witType)
}

// postprocessWitnessLists rewrites each reading's witness list against
// the frozen registry: manuscript sigla whose base form resolves to no
// registered witness are dropped, first-hand corrector sigla are folded
// to their canonical spelling, and divided-testimony version and
// patristic sigla are removed.
func (c *Collation) postprocessWitnessLists(doc *vmr.Document, rules *suffixRules) {
	for _, seg := range doc.Segments {
		for _, sr := range seg.Readings {
			kept := make([]string, 0, len(strings.Fields(sr.Witnesses)))
			for _, wit := range strings.Fields(sr.Witnesses) {
				switch {
				case siglum.IsManuscript(wit):
					base := siglum.FoldFirstHandCorrector(
						siglum.BaseSiglum(wit, rules.manuscript, c.Registry.Has))
					if c.Registry.Has(base) {
						kept = append(kept, siglum.FoldFirstHandCorrector(wit))
					}
				case siglum.IsVersionStart(wit):
					if !rules.version.MatchString(wit) {
						kept = append(kept, wit)
					}
				default:
					if !rules.patristic.MatchString(wit) {
						kept = append(kept, wit)
					}
				}
			}
			sr.Witnesses = strings.Join(kept, " ")
		}
	}
}

// assembleUnits builds one variation unit per segment in source order.
// Duplicate composite ids are disambiguated with a "#<occurrence>"
// suffix and logged; the upstream data cannot guarantee uniqueness and
// silently overwriting a unit would lose readings.
func (c *Collation) assembleUnits(doc *vmr.Document, opts *Options) {
	log := opts.logger()
	seen := make(map[string]int)
	for _, seg := range doc.Segments {
		unit := newVariationUnit(seg, opts.SingularToSubreading)
		seen[unit.ID]++
		if n := seen[unit.ID]; n > 1 {
			log.Warn("duplicate variation unit id",
				"book", c.Book, "id", unit.ID, "occurrence", n)
			unit.ID = fmt.Sprintf("%s#%d", unit.ID, n)
		}
		c.Units = append(c.Units, unit)
	}
}
