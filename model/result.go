package model

// Status is the per-row verdict.
type Status int

const (
	// StatusFail marks a row with at least one failure reason.
	StatusFail Status = iota
	// StatusPass marks a fully verified row.
	StatusPass
)

// String returns "PASS" or "FAIL".
func (s Status) String() string {
	if s == StatusPass {
		return "PASS"
	}
	return "FAIL"
}

// Result is the verdict for one BOM row. It echoes the item, carries the
// lookup outcome, and is immutable once the comparator has written it.
type Result struct {
	Item Item

	// CalloutFound reports whether any token variant matched on any page,
	// regardless of whether a numeric value followed.
	CalloutFound bool

	// LengthFound reports whether a numeric length candidate was selected.
	LengthFound bool
	// LengthMatch is true when the selected length is within tolerance of
	// any acceptable option.
	LengthMatch bool
	// DrawingLength is the selected length, nil when none was found.
	DrawingLength *float64
	// DrawingPage is the 1-indexed page the callout was matched on, 0 when
	// the callout was not found.
	DrawingPage int
	// Method records how the value was recovered: "geometry" or "text".
	Method string
	// SelectionRule records which candidate-selection rule fired.
	SelectionRule string
	// CandidateLengths lists every candidate value seen in the search
	// window, in selection order.
	CandidateLengths []float64

	ThicknessFound   bool
	ThicknessMatch   bool
	DrawingThickness *float64

	// Quantity recovered from the callout text, when one was present.
	QuantityCalloutFound bool
	QuantityCalloutValue *float64
	QuantityCalloutLabel string
	// QuantityTokensDetected is true when the matched callout span carried
	// tokens beyond the item's base tokens, whether or not they parsed as
	// a quantity.
	QuantityTokensDetected bool

	Status         Status
	FailureReasons []string
	InfoNotes      []string

	// DuplicatePosition is true when another row in the same table group
	// shares this row's position id.
	DuplicatePosition bool

	// CalloutBox and ValueBox locate the matched callout span and the
	// selected value on the drawing, for overlay rendering. Nil in text
	// mode.
	CalloutBox *Rect
	ValueBox   *Rect
}

// DuplicatePosition identifies one position id that appears more than once
// within a table group.
type DuplicatePosition struct {
	TableLabel string
	PositionID string
}

// Summary aggregates a result sequence. It is purely derived and can be
// recomputed from the results at any time.
type Summary struct {
	TotalRows          int
	PassCount          int
	FailCount          int
	CalloutMissing     int
	LengthMissing      int
	ThicknessMissing   int
	ThicknessMismatch  int
	DuplicatePositions []DuplicatePosition
}
