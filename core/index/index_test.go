package index

import (
	"testing"

	"vmr2tei/core/errors"
)

// TestParse verifies every index shape the NTVMR API accepts.
func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Index
	}{
		{"Acts", Index{Book: "Acts"}},
		{"Acts.1", Index{Book: "Acts", Chapter: 1}},
		{"Acts.1-5", Index{Book: "Acts", Chapter: 1, ChapterEnd: 5}},
		{"Acts.1.1", Index{Book: "Acts", Chapter: 1, Verse: 1}},
		{"Acts.1.1-5", Index{Book: "Acts", Chapter: 1, Verse: 1, VerseEnd: 5}},
		{"1Cor.13.4", Index{Book: "1Cor", Chapter: 13, Verse: 4}},
		{"  Acts.2  ", Index{Book: "Acts", Chapter: 2}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.in, err)
			continue
		}
		if got.Book != tt.want.Book || got.Chapter != tt.want.Chapter ||
			got.ChapterEnd != tt.want.ChapterEnd || got.Verse != tt.want.Verse ||
			got.VerseEnd != tt.want.VerseEnd {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

// TestParseRejects verifies structured errors on malformed indices.
func TestParseRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"acts.1",
		"Acts.",
		"Acts.5-2",
		"Acts.1.5-2",
		"Acts.1-5.3",
		"Acts.1.1.1",
	} {
		_, err := Parse(in)
		if err == nil {
			t.Errorf("Parse(%q) should fail", in)
			continue
		}
		var idxErr *errors.IndexError
		if !errors.As(err, &idxErr) {
			t.Errorf("Parse(%q) error type = %T, want IndexError", in, err)
		}
	}
}

// TestString verifies canonical round-tripping.
func TestString(t *testing.T) {
	for _, in := range []string{"Acts", "Acts.1", "Acts.1-5", "Acts.1.1", "Acts.1.1-5"} {
		idx, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", in, err)
		}
		if got := idx.String(); got != in {
			t.Errorf("String() = %q, want %q", got, in)
		}
	}
}
