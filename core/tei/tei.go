// Package tei renders a built collation as a TEI XML critical apparatus.
//
// The serializer is a pure projection: the witness registry becomes a
// listWit block and each variation unit an app element, in the orders
// the collation already fixed. TEI is assembled by line, matching the
// document's stable two-space indentation, rather than through
// encoding/xml marshaling.
package tei

import (
	"bytes"
	"fmt"
	"strings"

	"vmr2tei/core/collation"
	"vmr2tei/core/siglum"
)

// Namespace is the TEI namespace declared on the root element.
const Namespace = "http://www.tei-c.org/ns/1.0"

// Serialize renders a collation as a complete TEI document with an XML
// declaration and DOCTYPE.
func Serialize(c *collation.Collation) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n<!DOCTYPE TEI>\n")
	fmt.Fprintf(&buf, "<TEI xmlns=\"%s\">\n", Namespace)
	writeHeader(&buf, c)
	writeText(&buf, c)
	buf.WriteString("</TEI>\n")
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, c *collation.Collation) {
	buf.WriteString("  <teiHeader>\n")
	buf.WriteString("    <fileDesc>\n")
	buf.WriteString("      <titleStmt>\n")
	fmt.Fprintf(buf, "        <title>A collation of %s</title>\n", escapeXML(c.Book))
	buf.WriteString("      </titleStmt>\n")
	buf.WriteString("      <publicationStmt>\n")
	buf.WriteString("        <p>Temporary publicationStmt for validation</p>\n")
	buf.WriteString("      </publicationStmt>\n")
	buf.WriteString("      <sourceDesc>\n")
	buf.WriteString("        <listWit>\n")
	for _, w := range c.Registry.Witnesses() {
		fmt.Fprintf(buf, "          <witness n=\"%s\" type=\"%s\"/>\n", escapeXML(w.ID), w.Type)
	}
	buf.WriteString("        </listWit>\n")
	buf.WriteString("      </sourceDesc>\n")
	buf.WriteString("    </fileDesc>\n")
	buf.WriteString("  </teiHeader>\n")
}

func writeText(buf *bytes.Buffer, c *collation.Collation) {
	buf.WriteString("  <text xml:lang=\"grc\">\n")
	buf.WriteString("    <body>\n")
	fmt.Fprintf(buf, "      <div type=\"book\" n=\"%s\">\n", escapeXML(c.Book))
	for _, unit := range c.Units {
		writeUnit(buf, unit)
	}
	buf.WriteString("      </div>\n")
	buf.WriteString("    </body>\n")
	buf.WriteString("  </text>\n")
}

func writeUnit(buf *bytes.Buffer, unit *collation.VariationUnit) {
	fmt.Fprintf(buf, "        <app n=\"%s\">\n", escapeXML(unit.ID))
	for _, r := range unit.Readings {
		writeReading(buf, r)
	}
	buf.WriteString("        </app>\n")
}

// witDetailTypes are rendered as witDetail rather than rdg: they
// annotate the unit's testimony without contributing a reading text.
func isWitDetail(r *collation.Reading) bool {
	if len(r.Targets) > 0 {
		return true
	}
	switch r.Type {
	case collation.ReadingAmbiguous, collation.ReadingOverlap,
		collation.ReadingUnclear, collation.ReadingLac:
		return true
	}
	return false
}

func writeReading(buf *bytes.Buffer, r *collation.Reading) {
	tag := "rdg"
	if isWitDetail(r) {
		tag = "witDetail"
	}
	fmt.Fprintf(buf, "          <%s", tag)
	if r.ID != "" {
		fmt.Fprintf(buf, " n=\"%s\"", escapeXML(r.ID))
	}
	if r.Type != collation.ReadingNone {
		fmt.Fprintf(buf, " type=\"%s\"", r.Type)
	}
	fmt.Fprintf(buf, " wit=\"%s\"", escapeXML(strings.Join(r.Witnesses, " ")))
	if len(r.Targets) > 0 {
		fmt.Fprintf(buf, " target=\"%s\"", escapeXML(strings.Join(r.Targets, " ")))
	}
	if lang := r.Language(); lang != siglum.LangGreek && lang != siglum.LangUnknown {
		fmt.Fprintf(buf, " xml:lang=\"%s\"", lang)
	}
	if r.Text == "" {
		buf.WriteString("/>\n")
		return
	}
	fmt.Fprintf(buf, ">%s</%s>\n", escapeXML(r.Text), tag)
}

// escapeXML escapes the five XML special characters for use in both
// attribute values and text content.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
