// Package index parses NTVMR content indices: the dotted references
// that select how much of a book's apparatus to fetch, e.g. "Acts"
// (whole book), "Acts.1" or "Acts.1-5" (chapters), "Acts.1.1" or
// "Acts.1.1-5" (verses).
package index

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"vmr2tei/core/errors"
)

// Index is a parsed content index.
type Index struct {
	// Book is the NT book name, including any numeric prefix
	// (e.g. "Acts", "1Cor").
	Book string

	// Chapter is the first selected chapter (0 for whole-book indices).
	Chapter int

	// ChapterEnd is the last chapter of a chapter range (0 when the
	// index selects a single chapter or verses).
	ChapterEnd int

	// Verse is the first selected verse (0 when the index selects whole
	// chapters).
	Verse int

	// VerseEnd is the last verse of a verse range (0 for single verses).
	VerseEnd int

	// Raw is the index string as given, used verbatim in API requests.
	Raw string
}

// indexGrammar is the participle grammar for content indices.
//
//nolint:govet // participle grammar tags are not standard struct tags
type indexGrammar struct {
	BookPrefix string       `parser:"@Int?"`
	BookName   string       `parser:"@Ident"`
	ChapterRef *chapterPart `parser:"( \".\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type chapterPart struct {
	Chapter    int        `parser:"@Int"`
	ChapterEnd *int       `parser:"( \"-\" @Int )?"`
	VerseRef   *versePart `parser:"( \".\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Verse    int  `parser:"@Int"`
	VerseEnd *int `parser:"( \"-\" @Int )?"`
}

// indexLexer tokenizes content indices. Book names start with an
// uppercase letter; a leading integer is the book-number prefix.
var indexLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Z][A-Za-z]*`},
	{Name: "Punct", Pattern: `[.\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var indexParser = participle.MustBuild[indexGrammar](
	participle.Lexer(indexLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a content index string.
func Parse(s string) (*Index, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, &errors.IndexError{Index: s, Message: "empty index"}
	}
	parsed, err := indexParser.ParseString("", trimmed)
	if err != nil {
		return nil, &errors.IndexError{Index: s, Message: "unrecognized format", Err: err}
	}
	idx := &Index{
		Book: parsed.BookPrefix + parsed.BookName,
		Raw:  trimmed,
	}
	if parsed.ChapterRef != nil {
		idx.Chapter = parsed.ChapterRef.Chapter
		if parsed.ChapterRef.ChapterEnd != nil {
			idx.ChapterEnd = *parsed.ChapterRef.ChapterEnd
			if idx.ChapterEnd <= idx.Chapter {
				return nil, &errors.IndexError{Index: s, Message: "chapter range is not ascending"}
			}
			if parsed.ChapterRef.VerseRef != nil {
				return nil, &errors.IndexError{Index: s, Message: "verses cannot follow a chapter range"}
			}
		}
		if parsed.ChapterRef.VerseRef != nil {
			idx.Verse = parsed.ChapterRef.VerseRef.Verse
			if parsed.ChapterRef.VerseRef.VerseEnd != nil {
				idx.VerseEnd = *parsed.ChapterRef.VerseRef.VerseEnd
				if idx.VerseEnd <= idx.Verse {
					return nil, &errors.IndexError{Index: s, Message: "verse range is not ascending"}
				}
			}
		}
	}
	return idx, nil
}

// String reconstructs the canonical form of the index.
func (i *Index) String() string {
	s := i.Book
	if i.Chapter > 0 {
		s += fmt.Sprintf(".%d", i.Chapter)
		if i.ChapterEnd > 0 {
			s += fmt.Sprintf("-%d", i.ChapterEnd)
		}
		if i.Verse > 0 {
			s += fmt.Sprintf(".%d", i.Verse)
			if i.VerseEnd > 0 {
				s += fmt.Sprintf("-%d", i.VerseEnd)
			}
		}
	}
	return s
}
