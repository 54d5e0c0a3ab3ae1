package siglum

import (
	"strconv"
	"strings"
)

// noNumberSentinel sorts witnesses without a numeric component after all
// numbered witnesses of the same type.
const noNumberSentinel = 10000

// SortKey is the composite ordering key for a witness siglum. Keys are a
// pure function of the siglum and are recomputed on demand, never stored.
type SortKey struct {
	// TypeRank orders witness classes: papyri, majuscules, minuscules,
	// lectionaries, then versions in configured language order, then
	// fathers after all versions.
	TypeRank int
	// Number is the numeric run of the siglum after its type prefix, or
	// noNumberSentinel when the siglum has none.
	Number int
	// Residual is whatever remains of the siglum after prefix and number,
	// compared lexicographically.
	Residual string
}

// Key computes the sort key for a witness siglum. versionOrder is the
// configured version-language ordering; fathers rank after its last
// entry. Correctors are keyed by the shape of their siglum, so a
// corrector of minuscule 69 sorts adjacent to 69 itself rather than in a
// separate bucket.
func Key(siglum string, versionOrder []string) SortKey {
	key := SortKey{Number: noNumberSentinel}
	rest := siglum
	switch {
	case papyrusPattern.MatchString(rest):
		key.TypeRank = 1
		rest = rest[len("P"):]
	case majusculePattern.MatchString(rest):
		key.TypeRank = 2
		rest = rest[len("0"):]
	case minusculePattern.MatchString(rest):
		key.TypeRank = 3
	case lectionaryPattern.MatchString(rest):
		key.TypeRank = 4
		rest = rest[len("L"):]
	case versionStartPattern.MatchString(rest):
		prefix, suffix, _ := strings.Cut(rest, ":")
		key.TypeRank = 5 + indexOf(versionOrder, prefix)
		rest = suffix
	default:
		key.TypeRank = 5 + len(versionOrder)
	}
	if m := minusculePattern.FindString(rest); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil {
			key.Number = n
			rest = rest[len(m):]
		}
	}
	key.Residual = rest
	return key
}

// Less orders sort keys by type rank, then number, then residual string.
func (k SortKey) Less(other SortKey) bool {
	if k.TypeRank != other.TypeRank {
		return k.TypeRank < other.TypeRank
	}
	if k.Number != other.Number {
		return k.Number < other.Number
	}
	return k.Residual < other.Residual
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	// Unknown version prefixes rank with the last configured language
	// rather than panicking on bad configuration.
	return len(list) - 1
}
