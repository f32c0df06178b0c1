package model

// MeasureKind tells how an item's measurement column was typed in the table
// header, which controls how many values the cell may contribute.
type MeasureKind int

const (
	// MeasureLength is a single-value LENGTH column.
	MeasureLength MeasureKind = iota
	// MeasureSize is a SIZE/DIMENSION column whose cell may encode several
	// acceptable values.
	MeasureSize
)

// String returns the lowercase column name for the kind.
func (k MeasureKind) String() string {
	if k == MeasureSize {
		return "size"
	}
	return "length"
}

// Item is one canonical BOM row produced by the table normalizer. Fields are
// written once during normalization and read-only afterwards.
type Item struct {
	// PositionID is the row's POS number as written in the table
	// (digits, optionally one decimal group). Uniqueness is scoped to
	// TableGroup.
	PositionID string

	// Description is the concatenated description cell text.
	Description string

	// LengthOptions holds the acceptable drawing lengths in mm. A LENGTH
	// column yields exactly one entry; a SIZE column yields every number
	// embedded in the cell. Never empty when the row declared a length.
	LengthOptions []float64

	// LengthDisplay preserves the original measurement cell text for
	// reporting. Optional.
	LengthDisplay string

	// MeasureKind records which column type produced LengthOptions.
	MeasureKind MeasureKind

	Thickness        *float64
	ThicknessDisplay string

	QuantityValue   *float64
	QuantityDisplay string

	// TableGroup identifies the table the row came from. Duplicate
	// position detection runs within one group.
	TableGroup string

	// TableLabel is the human-readable form of TableGroup used in
	// failure reasons and summaries.
	TableLabel string

	// TablePage is the 1-indexed page the table was found on.
	TablePage int

	// SourceAnchor is the row's cell region, kept only for downstream
	// overlay rendering. It never participates in matching.
	SourceAnchor *Rect
}

// ExpectedLength returns the primary expected length, the first option.
// ok is false when the row declared no length.
func (it *Item) ExpectedLength() (v float64, ok bool) {
	if len(it.LengthOptions) == 0 {
		return 0, false
	}
	return it.LengthOptions[0], true
}
