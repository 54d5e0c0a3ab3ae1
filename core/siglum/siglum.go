// Package siglum implements the witness-siglum grammar used by ECM
// apparatus collations: classification of sigla by witness type,
// normalization of raw witness strings, suffix stripping, and sort keys.
//
// The input grammar is irregular: periods appear as separators, brackets
// and angle brackets as noise, parenthetical suffix lists abbreviate
// several witnesses at once, and versional evidence blocks rely on an
// implicit prefix carried over from the block opener. The functions here
// reduce all of that to plain space-separated sigla.
package siglum

import "regexp"

// Type identifies the kind of source a witness siglum refers to.
// The set is closed; Classify never returns a value outside it.
type Type string

const (
	Papyrus    Type = "papyrus"
	Majuscule  Type = "majuscule"
	Minuscule  Type = "minuscule"
	Lectionary Type = "lectionary"
	Corrector  Type = "corrector"
	Version    Type = "version"
	Father     Type = "father"
)

// VersionPrefixes lists the versional witness prefixes in their canonical
// order. The order feeds the sort key for versional witnesses.
var VersionPrefixes = []string{"L", "S", "K", "Ä", "A", "G", "Sl"}

var (
	// manuscriptPattern matches any siglum that refers to a manuscript,
	// including Old Latin manuscripts cited under the L: version prefix.
	manuscriptPattern = regexp.MustCompile(`^(P|L|L:)?\d+`)

	papyrusPattern    = regexp.MustCompile(`^P\d+`)
	majusculePattern  = regexp.MustCompile(`^0\d+`)
	minusculePattern  = regexp.MustCompile(`^[1-9]\d*`)
	lectionaryPattern = regexp.MustCompile(`^L\d+`)

	// versionStartPattern marks the start of an evidence block for a
	// version. Without a colon the siglum is a singleton versional witness.
	versionStartPattern = regexp.MustCompile(`^(L|S|K|Ä|A|G|Sl)(:|>|$)`)

	// correctorPattern matches corrector-hand markers anywhere in a siglum.
	correctorPattern = regexp.MustCompile(`[CAK]\d*`)

	// IgnoredManuscriptSuffixes describes manuscript suffixes that do not
	// distinguish one witness from another for registration purposes.
	IgnoredManuscriptSuffixes = regexp.MustCompile(`(\*|T|V|f\d*)$`)

	// AllManuscriptSuffixes additionally covers corrector and lectionary
	// hands; stripping these always yields the base manuscript.
	AllManuscriptSuffixes = regexp.MustCompile(`(\*|T|V|f\d*|C\d*|A\d*|K\d*|L\d+)$`)

	// IgnoredVersionSuffixes marks versional sigla whose testimony is
	// divided across manuscripts of the version. Such sigla attest nothing.
	IgnoredVersionSuffixes = regexp.MustCompile(`(mss|ms)$`)

	// IgnoredPatristicSuffixes marks patristic sigla qualified as lemma or
	// commentary text, which likewise cannot be counted as attestation.
	IgnoredPatristicSuffixes = regexp.MustCompile(`(Lem|Comm|mss|ms)$`)
)

// Classify reports the witness type a siglum belongs to. The regex
// families are tried in fixed order; anything unrecognized is treated as
// a patristic witness rather than rejected.
func Classify(siglum string) Type {
	switch {
	case papyrusPattern.MatchString(siglum):
		return Papyrus
	case majusculePattern.MatchString(siglum):
		return Majuscule
	case minusculePattern.MatchString(siglum):
		return Minuscule
	case lectionaryPattern.MatchString(siglum):
		return Lectionary
	case versionStartPattern.MatchString(siglum):
		return Version
	default:
		return Father
	}
}

// IsManuscript reports whether a siglum refers to a manuscript
// (papyrus, majuscule, minuscule, lectionary, or a versional manuscript).
func IsManuscript(siglum string) bool {
	return manuscriptPattern.MatchString(siglum)
}

// IsCorrector reports whether a siglum carries a corrector-hand marker.
func IsCorrector(siglum string) bool {
	return correctorPattern.MatchString(siglum)
}

// IsVersionStart reports whether a token opens a versional evidence block.
func IsVersionStart(siglum string) bool {
	return versionStartPattern.MatchString(siglum)
}

// FoldFirstHandCorrector canonicalizes the first-hand corrector suffix:
// "*VC" folds to "*C". The V never falls to suffix stripping because the
// asterisk blocks it.
func FoldFirstHandCorrector(siglum string) string {
	if len(siglum) >= 3 && siglum[len(siglum)-3:] == "*VC" {
		return siglum[:len(siglum)-3] + "*C"
	}
	return siglum
}

// BaseSiglum strips trailing suffix matches from a siglum until none
// remain. If known is non-nil, stripping stops early as soon as the
// intermediate string is a known witness id, so resolution is greedy
// toward the shortest known match. With a registry that grows during the
// scan this makes the result order-dependent on registration order; the
// collation build therefore separates the registration pass from every
// read-only resolution pass.
func BaseSiglum(siglum string, suffixes *regexp.Regexp, known func(string) bool) string {
	base := siglum
	for {
		if known != nil && known(base) {
			return base
		}
		loc := suffixes.FindStringIndex(base)
		if loc == nil || loc[0] == loc[1] {
			return base
		}
		base = base[:loc[0]]
	}
}
