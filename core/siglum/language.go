package siglum

import "regexp"

// Language is the detected language of a reading's text, used for
// xml:lang tagging at serialization time.
type Language string

const (
	// LangGreek is the default document language and carries no tag.
	LangGreek   Language = "grc"
	LangLatin   Language = "lat"
	LangSyriac  Language = "syr"
	LangCoptic  Language = "cop"
	LangUnknown Language = ""
)

var (
	greekTextPattern  = regexp.MustCompile(`^[\x{03B1}-\x{03C9}]`)
	latinTextPattern  = regexp.MustCompile(`^[a-z]`)
	syriacTextPattern = regexp.MustCompile(`^[\x{0710}-\x{074F}]`)
	copticTextPattern = regexp.MustCompile(`^[\x{03E2}-\x{03EF}\x{2C80}-\x{2CEE}]`)
)

// ClassifyLanguage detects the language of reading text by its first
// character. The checks run in fixed order; Greek wins ties with Coptic
// over the shared codepoints, which matches the collation's main
// language.
func ClassifyLanguage(text string) Language {
	switch {
	case greekTextPattern.MatchString(text):
		return LangGreek
	case latinTextPattern.MatchString(text):
		return LangLatin
	case syriacTextPattern.MatchString(text):
		return LangSyriac
	case copticTextPattern.MatchString(text):
		return LangCoptic
	default:
		return LangUnknown
	}
}
