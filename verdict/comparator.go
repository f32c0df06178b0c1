package verdict

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fusiengineers/drawcheck/lookup"
	"github.com/fusiengineers/drawcheck/model"
)

// Comparator evaluates rows against their lookup outcomes.
type Comparator struct {
	tolerance float64
}

// NewComparator creates a comparator with the standard 0.5 mm tolerance.
func NewComparator() *Comparator {
	return NewComparatorWithTolerance(0.5)
}

// NewComparatorWithTolerance creates a comparator with a custom tolerance.
func NewComparatorWithTolerance(tolerance float64) *Comparator {
	if tolerance <= 0 {
		tolerance = 0.5
	}
	return &Comparator{tolerance: tolerance}
}

// AnalyzeDuplicates flags every row whose position id occurs more than once
// within its table group. All occurrences are flagged, not only the later
// ones, and the returned details carry one entry per (table, id) pair.
// flags is parallel to items.
func AnalyzeDuplicates(items []model.Item) (flags []bool, details []model.DuplicatePosition) {
	flags = make([]bool, len(items))

	type groupKey struct {
		group string
		pos   string
	}
	indices := make(map[groupKey][]int)
	for i, item := range items {
		pos := strings.TrimSpace(item.PositionID)
		if pos == "" {
			continue
		}
		key := groupKey{group: item.TableGroup, pos: pos}
		indices[key] = append(indices[key], i)
	}

	seen := make(map[groupKey]bool)
	for key, idxs := range indices {
		if len(idxs) < 2 {
			continue
		}
		for _, i := range idxs {
			flags[i] = true
		}
		if !seen[key] {
			seen[key] = true
			details = append(details, model.DuplicatePosition{
				TableLabel: items[idxs[0]].TableLabel,
				PositionID: key.pos,
			})
		}
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].TableLabel != details[j].TableLabel {
			return details[i].TableLabel < details[j].TableLabel
		}
		return details[i].PositionID < details[j].PositionID
	})
	return flags, details
}

// Evaluate produces the verdict for one row. thickness is nil when the row
// declared no thickness and the lookup was skipped.
func (c *Comparator) Evaluate(item model.Item, length lookup.Outcome, thickness *lookup.Outcome, duplicate bool) model.Result {
	lengthRequired := len(item.LengthOptions) > 0
	lengthMatch := !lengthRequired
	if length.Found && lengthRequired {
		lengthMatch = false
		for _, expected := range item.LengthOptions {
			if math.Abs(length.Value-expected) <= c.tolerance {
				lengthMatch = true
				break
			}
		}
	}

	thicknessRequired := item.Thickness != nil
	thicknessFound := false
	thicknessMatch := !thicknessRequired
	thicknessCallout := false
	var drawingThickness *float64
	if thicknessRequired && thickness != nil {
		thicknessCallout = thickness.CalloutFound
		thicknessFound = thickness.Found
		if thickness.Found {
			v := thickness.Value
			drawingThickness = &v
			thicknessMatch = math.Abs(v-*item.Thickness) <= c.tolerance
		} else {
			thicknessMatch = false
		}
	} else if thicknessRequired {
		thicknessMatch = false
	}

	calloutFound := length.CalloutFound || thicknessCallout

	result := model.Result{
		Item:              item,
		CalloutFound:      calloutFound,
		LengthFound:       length.Found,
		LengthMatch:       lengthMatch,
		DrawingPage:       length.Page,
		Method:            length.Method,
		SelectionRule:     length.Selection,
		CandidateLengths:  length.Candidates,
		ThicknessFound:    thicknessFound,
		ThicknessMatch:    thicknessMatch,
		DrawingThickness:  drawingThickness,
		DuplicatePosition: duplicate,
		CalloutBox:        length.CalloutBox,
		ValueBox:          length.ValueBox,
	}
	result.QuantityTokensDetected = length.QuantityTokens ||
		(thickness != nil && thickness.QuantityTokens)
	if length.Found {
		v := length.Value
		result.DrawingLength = &v
	}

	c.fillQuantity(&result, item, length, thickness)

	if duplicate {
		label := item.TableLabel
		if label == "" {
			label = "table"
		}
		result.FailureReasons = append(result.FailureReasons, fmt.Sprintf("duplicate POS in %s", label))
	}
	if !calloutFound {
		result.FailureReasons = append(result.FailureReasons, "callout missing")
	} else {
		c.lengthReasons(&result, item, length, lengthRequired, lengthMatch)
		c.thicknessReasons(&result, item, thickness, thicknessRequired, thicknessFound, thicknessMatch, drawingThickness)
		c.quantityNotes(&result, item)
	}

	thicknessOK := !thicknessRequired || (thicknessFound && thicknessMatch)
	if calloutFound && lengthMatch && thicknessOK && !duplicate {
		result.Status = model.StatusPass
	} else {
		result.Status = model.StatusFail
	}
	return result
}

func (c *Comparator) lengthReasons(result *model.Result, item model.Item, length lookup.Outcome, required, matched bool) {
	if !length.Found && required {
		switch length.Method {
		case "geometry":
			if len(length.Candidates) > 0 {
				result.FailureReasons = append(result.FailureReasons, "length missing (no candidate matched table)")
			} else {
				result.FailureReasons = append(result.FailureReasons, "length missing (no numeric in window)")
			}
		case "text":
			result.FailureReasons = append(result.FailureReasons, "length missing (text search)")
		default:
			result.FailureReasons = append(result.FailureReasons, "length missing")
		}
	} else if length.Found && !matched {
		expected := item.LengthDisplay
		if expected == "" && len(item.LengthOptions) > 0 {
			parts := make([]string, len(item.LengthOptions))
			for i, v := range item.LengthOptions {
				parts[i] = fmt.Sprintf("%.1f", v)
			}
			expected = strings.Join(parts, " / ")
		}
		if expected != "" {
			result.FailureReasons = append(result.FailureReasons,
				fmt.Sprintf("length mismatch: drawing %.1f vs table %s", length.Value, expected))
		}
	}

	switch length.Method {
	case "geometry":
		if len(length.Candidates) > 0 {
			var others []string
			for _, v := range length.Candidates {
				if result.DrawingLength == nil || math.Abs(v-*result.DrawingLength) > 1e-6 {
					others = append(others, fmt.Sprintf("%.1f", v))
				}
				if len(others) == 3 {
					break
				}
			}
			if len(others) > 0 {
				result.InfoNotes = append(result.InfoNotes, "other dims in window: "+strings.Join(others, ", "))
			}
		}
		switch length.Selection {
		case "max_in_window":
			result.InfoNotes = append(result.InfoNotes, "picked highest value within barrier window")
		case "closest_to_expected":
			result.InfoNotes = append(result.InfoNotes, "picked value closest to expected")
		}
	case "text":
		result.InfoNotes = append(result.InfoNotes, "length from text fallback")
	}
}

func (c *Comparator) thicknessReasons(result *model.Result, item model.Item, thickness *lookup.Outcome, required, found, matched bool, drawing *float64) {
	if !required {
		return
	}
	if !found {
		result.FailureReasons = append(result.FailureReasons, "thickness missing")
	} else if !matched {
		expected := item.ThicknessDisplay
		if expected == "" && item.Thickness != nil {
			expected = fmt.Sprintf("%.1f", *item.Thickness)
		}
		result.FailureReasons = append(result.FailureReasons,
			fmt.Sprintf("thickness mismatch: drawing %.1f vs table %s", *drawing, expected))
	}
	if thickness != nil && thickness.Method == "text" {
		result.InfoNotes = append(result.InfoNotes, "thickness from text fallback")
	}
}

// fillQuantity merges quantity readings from both lookups. Conflicting
// values are kept (first wins) but noted.
func (c *Comparator) fillQuantity(result *model.Result, item model.Item, length lookup.Outcome, thickness *lookup.Outcome) {
	var hits []*lookup.QuantityHit
	if length.Quantity != nil {
		hits = append(hits, length.Quantity)
	}
	if thickness != nil && thickness.Quantity != nil {
		hits = append(hits, thickness.Quantity)
	}
	if len(hits) > 0 {
		first := hits[0]
		v := first.Value
		result.QuantityCalloutValue = &v
		result.QuantityCalloutLabel = first.Label
		for _, h := range hits[1:] {
			if math.Abs(h.Value-first.Value) > 1e-6 {
				result.InfoNotes = append(result.InfoNotes, "qty conflict detected in callout")
				break
			}
		}
	}
	result.QuantityCalloutFound = result.QuantityCalloutValue != nil || result.QuantityCalloutLabel != ""
	if !result.CalloutFound {
		result.QuantityCalloutFound = false
		result.QuantityCalloutValue = nil
		result.QuantityCalloutLabel = ""
	}
}

// quantityNotes records whether the table's declared quantity surfaced in
// the callout.
func (c *Comparator) quantityNotes(result *model.Result, item model.Item) {
	if item.QuantityDisplay == "" {
		return
	}
	if result.QuantityCalloutFound {
		if item.QuantityValue != nil && result.QuantityCalloutValue != nil {
			if math.Abs(*item.QuantityValue-*result.QuantityCalloutValue) <= 1e-6 {
				result.InfoNotes = append(result.InfoNotes, fmt.Sprintf("qty %s matched", result.QuantityCalloutLabel))
			} else {
				result.InfoNotes = append(result.InfoNotes,
					fmt.Sprintf("qty mismatch: callout %s vs table %s", result.QuantityCalloutLabel, item.QuantityDisplay))
			}
		}
		return
	}
	if result.QuantityTokensDetected {
		result.InfoNotes = append(result.InfoNotes, "qty present in callout text but not parsed")
	} else {
		result.InfoNotes = append(result.InfoNotes, "qty missing in callout")
	}
}

// Summarize derives the aggregate view of a result sequence.
func Summarize(results []model.Result) model.Summary {
	summary := model.Summary{TotalRows: len(results)}
	seen := make(map[model.DuplicatePosition]bool)
	for _, r := range results {
		if r.Status == model.StatusPass {
			summary.PassCount++
		} else {
			summary.FailCount++
		}
		if !r.CalloutFound {
			summary.CalloutMissing++
		}
		if r.CalloutFound && len(r.Item.LengthOptions) > 0 && !r.LengthFound {
			summary.LengthMissing++
		}
		if r.Item.Thickness != nil && r.CalloutFound {
			if !r.ThicknessFound {
				summary.ThicknessMissing++
			} else if !r.ThicknessMatch {
				summary.ThicknessMismatch++
			}
		}
		if r.DuplicatePosition {
			dup := model.DuplicatePosition{TableLabel: r.Item.TableLabel, PositionID: r.Item.PositionID}
			if !seen[dup] {
				seen[dup] = true
				summary.DuplicatePositions = append(summary.DuplicatePositions, dup)
			}
		}
	}
	sort.Slice(summary.DuplicatePositions, func(i, j int) bool {
		a, b := summary.DuplicatePositions[i], summary.DuplicatePositions[j]
		if a.TableLabel != b.TableLabel {
			return a.TableLabel < b.TableLabel
		}
		return a.PositionID < b.PositionID
	})
	return summary
}
