// Package vmr parses the apparatus XML dialect served by the New
// Testament Virtual Manuscript Room (NTVMR) into a typed document tree.
//
// The dialect is a flat sequence of segment elements (one per variation
// unit), each holding segmentReading children whose attributes carry the
// reading label, the raw witness string, and either the target-reading
// list or the reading text.
package vmr

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Document is a parsed NTVMR apparatus response.
type Document struct {
	Segments []*Segment
}

// Segment is one variation unit in the source tree.
type Segment struct {
	// Verse is the verse-like locator of the unit.
	Verse string
	// WordSegs is the optional word-segment offset within the verse.
	WordSegs string
	// Readings holds the unit's readings in source order.
	Readings []*SegmentReading
}

// SegmentReading is one attested reading within a segment.
type SegmentReading struct {
	// Label is the reading id, possibly decorated with marker characters.
	Label string
	// Witnesses is the raw witness string. The collation build rewrites
	// this field in place during normalization.
	Witnesses string
	// HasWitnesses distinguishes an absent witnesses attribute from an
	// empty one; absence is fatal for the reading.
	HasWitnesses bool
	// Reading carries the target-reading list for ambiguous readings, or
	// reading text, depending on the label-derived type.
	Reading string
	// Text is the element's own text content.
	Text string
}

// Parse reads an NTVMR apparatus document from raw XML bytes.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing VMR XML: %w", err)
	}
	doc := &Document{}
	for _, seg := range xmlquery.Find(root, "//segment") {
		segment := &Segment{
			Verse:    seg.SelectAttr("verse"),
			WordSegs: seg.SelectAttr("wordsegs"),
		}
		for _, rdg := range xmlquery.Find(seg, ".//segmentReading") {
			segment.Readings = append(segment.Readings, parseSegmentReading(rdg))
		}
		doc.Segments = append(doc.Segments, segment)
	}
	return doc, nil
}

func parseSegmentReading(n *xmlquery.Node) *SegmentReading {
	sr := &SegmentReading{
		Label:   n.SelectAttr("label"),
		Reading: n.SelectAttr("reading"),
		Text:    strings.TrimSpace(n.InnerText()),
	}
	for _, attr := range n.Attr {
		if attr.Name.Local == "witnesses" {
			sr.Witnesses = attr.Value
			sr.HasWitnesses = true
			break
		}
	}
	return sr
}
