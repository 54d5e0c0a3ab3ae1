package tei

import (
	"strings"
	"testing"

	"vmr2tei/core/collation"
	"vmr2tei/core/vmr"
)

func buildCollation(t *testing.T) *collation.Collation {
	t.Helper()
	doc := &vmr.Document{Segments: []*vmr.Segment{
		{Verse: "Acts.1.1", WordSegs: "2-4", Readings: []*vmr.SegmentReading{
			{Label: "a", Witnesses: "01 03", HasWitnesses: true, Text: "τον λογον"},
			{Label: "b", Witnesses: "05", HasWitnesses: true, Reading: "om."},
			{Label: "c", Witnesses: "L:V", HasWitnesses: true, Text: "verbum"},
			{Label: "zw", Witnesses: "08", HasWitnesses: true, Reading: "a_f/b"},
			{Label: "zz", Witnesses: "P45", HasWitnesses: true},
		}},
	}}
	c, err := collation.Build(doc, "Acts", collation.Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return c
}

// TestSerializeDocumentShell verifies the declaration, DOCTYPE, and the
// header boilerplate.
func TestSerializeDocumentShell(t *testing.T) {
	out := string(Serialize(buildCollation(t)))
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		"<!DOCTYPE TEI>",
		`<TEI xmlns="http://www.tei-c.org/ns/1.0">`,
		"<title>A collation of Acts</title>",
		`<text xml:lang="grc">`,
		`<div type="book" n="Acts">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestSerializeListWit verifies the witness list projection.
func TestSerializeListWit(t *testing.T) {
	out := string(Serialize(buildCollation(t)))
	for _, want := range []string{
		`<witness n="P45" type="papyrus"/>`,
		`<witness n="01" type="majuscule"/>`,
		`<witness n="L:V" type="version"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("listWit missing %q", want)
		}
	}
	// listWit must be ordered: papyrus before majuscule.
	if strings.Index(out, `n="P45"`) > strings.Index(out, `n="01"`) {
		t.Error("witness list is not in registry order")
	}
}

// TestSerializeReadings verifies the rdg/witDetail projection.
func TestSerializeReadings(t *testing.T) {
	out := string(Serialize(buildCollation(t)))

	if !strings.Contains(out, `<app n="Acts.1.1/2-4">`) {
		t.Error("missing app element with composite unit id")
	}
	if !strings.Contains(out, `<rdg n="a" wit="01 03">τον λογον</rdg>`) {
		t.Error("missing plain rdg with text")
	}
	// Omission: a rdg with no text at all.
	if !strings.Contains(out, `<rdg n="b" wit="05"/>`) {
		t.Error("omission reading should be an empty rdg")
	}
	// Latin text gets an xml:lang tag; Greek does not.
	if !strings.Contains(out, `<rdg n="c" wit="L:V" xml:lang="lat">verbum</rdg>`) {
		t.Error("missing language-tagged Latin reading")
	}
	// Ambiguous readings are witDetail with targets.
	if !strings.Contains(out, `<witDetail n="zw" type="ambiguous" wit="08" target="a b"/>`) {
		t.Error("missing ambiguous witDetail")
	}
	if !strings.Contains(out, `<witDetail n="zz" type="lac" wit="P45"/>`) {
		t.Error("missing lacuna witDetail")
	}
}

// TestEscapeXML verifies attribute and text escaping.
func TestEscapeXML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`a<b`, "a&lt;b"},
		{`a&b`, "a&amp;b"},
		{`a"b`, "a&quot;b"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := escapeXML(tt.in); got != tt.want {
			t.Errorf("escapeXML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
