package collation

import "vmr2tei/core/vmr"

// VariationUnit is one point of variation: a composite id and its
// readings in source order. Units own their readings exclusively;
// readings are never resorted or deduplicated.
type VariationUnit struct {
	// ID is the verse locator, with the word-segment offset appended
	// after "/" when present.
	ID string
	// Readings holds the unit's readings in source order.
	Readings []*Reading
}

// unitID builds the composite unit id from a segment's locator fields.
func unitID(seg *vmr.Segment) string {
	if seg.WordSegs != "" {
		return seg.Verse + "/" + seg.WordSegs
	}
	return seg.Verse
}

// newVariationUnit assembles a unit from a segment whose readings have
// fully normalized witness strings.
func newVariationUnit(seg *vmr.Segment, singularToSubreading bool) *VariationUnit {
	unit := &VariationUnit{ID: unitID(seg)}
	for _, sr := range seg.Readings {
		unit.Readings = append(unit.Readings, parseReading(sr, singularToSubreading))
	}
	return unit
}
