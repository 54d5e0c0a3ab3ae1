package collation

import (
	"regexp"
	"strings"

	"vmr2tei/core/siglum"
	"vmr2tei/core/vmr"
)

// ReadingType classifies a reading. The set is closed; label parsing
// never produces a value outside it.
type ReadingType string

const (
	ReadingNone         ReadingType = ""
	ReadingDefective    ReadingType = "defective"
	ReadingOrthographic ReadingType = "orthographic"
	ReadingSubreading   ReadingType = "subreading"
	ReadingAmbiguous    ReadingType = "ambiguous"
	ReadingOverlap      ReadingType = "overlap"
	ReadingUnclear      ReadingType = "unclear"
	ReadingLac          ReadingType = "lac"
)

// Fixed label and marker conventions of the VMR collations.
const (
	// OmissionString in a reading's text denotes an omission; such
	// readings carry no textual content.
	OmissionString = "om."

	overlapLabel   = "zu"
	ambiguousLabel = "zw"
	unclearLabel   = "zv"
	lacLabel       = "zz"
)

var (
	defectiveLabelPattern    = regexp.MustCompile(`^[a-z]+f\d*$`)
	orthographicLabelPattern = regexp.MustCompile(`^[a-z]+o\d*$`)
)

// Reading is one attested variant within a variation unit. Readings are
// immutable after construction and reference witnesses by siglum only.
type Reading struct {
	// ID is the reading label, unique within its unit.
	ID string
	// Type is the label-derived classification.
	Type ReadingType
	// Text is the reading's text; empty for ambiguous, overlap, unclear,
	// and lac readings and for omissions.
	Text string
	// Witnesses holds the supporting sigla in source order.
	Witnesses []string
	// Targets holds the candidate reading ids of an ambiguous reading;
	// non-empty only when Type is ReadingAmbiguous.
	Targets []string
}

// cleanLabel strips decorative diamond markers and surrounding
// whitespace from a reading label.
func cleanLabel(label string) string {
	return strings.TrimSpace(strings.ReplaceAll(label, "♦", ""))
}

// labelType infers a reading type from its cleaned label.
func labelType(label string) ReadingType {
	switch {
	case defectiveLabelPattern.MatchString(label):
		return ReadingDefective
	case orthographicLabelPattern.MatchString(label):
		return ReadingOrthographic
	case label == overlapLabel:
		return ReadingOverlap
	case label == ambiguousLabel:
		return ReadingAmbiguous
	case label == unclearLabel:
		return ReadingUnclear
	case label == lacLabel:
		return ReadingLac
	default:
		return ReadingNone
	}
}

// suppressesText reports whether a reading type carries no text.
func (t ReadingType) suppressesText() bool {
	switch t {
	case ReadingAmbiguous, ReadingOverlap, ReadingUnclear, ReadingLac:
		return true
	}
	return false
}

// parseReading builds a Reading from a normalized segmentReading. The
// witness string is assumed to have been cleaned, group-expanded, and
// postprocessed against the frozen registry.
func parseReading(sr *vmr.SegmentReading, singularToSubreading bool) *Reading {
	r := &Reading{ID: cleanLabel(sr.Label)}
	r.Type = labelType(r.ID)

	// For an ambiguous reading the reading attribute lists candidate
	// reading ids, slash-separated, with "_f" markers interleaved.
	if r.Type == ReadingAmbiguous {
		for _, target := range strings.Split(strings.ReplaceAll(sr.Reading, "_f", ""), "/") {
			if target != "" {
				r.Targets = append(r.Targets, target)
			}
		}
	}

	r.Witnesses = strings.Fields(sr.Witnesses)

	if singularToSubreading && r.Type == ReadingNone && len(r.Witnesses) <= 1 {
		r.Type = ReadingSubreading
	}

	if !r.Type.suppressesText() {
		text := sr.Text
		if text == "" {
			text = sr.Reading
		}
		if text != OmissionString {
			r.Text = text
		}
	}
	return r
}

// Language reports the language of the reading's text for xml:lang
// tagging; Greek is the document default and LangUnknown means no tag.
func (r *Reading) Language() siglum.Language {
	if r.Text == "" {
		return siglum.LangUnknown
	}
	return siglum.ClassifyLanguage(r.Text)
}
