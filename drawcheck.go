// Package drawcheck verifies fabrication-drawing BOM tables against the
// callouts on the drawing body.
//
// The engine consumes already-extracted primitives (page texts, page words
// with bounding boxes, raw table cell grids), normalizes the BOM rows,
// resolves each row's callout by fuzzy token matching, recovers the nearby
// length and thickness values by geometric search, and emits one verdict per
// row.
//
// Basic usage:
//
//	report, warnings, err := drawcheck.New(doc).Check(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", drawcheck.FormatWarnings(warnings))
//	}
//	for _, r := range report.Results {
//	    fmt.Println(r.Item.PositionID, r.Status)
//	}
//
// With options:
//
//	report, _, err := drawcheck.New(doc).
//	    Tolerance(0.5).
//	    Workers(4).
//	    SectionKeywords("PROFILES", "PLATES", "PINS").
//	    Check(ctx)
//
// For background execution with one-at-a-time admission and stale-result
// suppression, see [Runner].
package drawcheck

import "github.com/fusiengineers/drawcheck/model"

// New creates a Checker over a document. The returned Checker is immutable;
// every option method returns a new instance, so a configured Checker is
// safe to share and to run repeatedly.
//
// Example:
//
//	report, warnings, err := drawcheck.New(doc).Check(ctx)
func New(doc *model.Document) *Checker {
	return &Checker{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must wraps a call returning (T, error) and panics on error. Intended for
// scripts and tests.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustReport wraps a Check call, panicking on error and discarding
// warnings.
//
// Example:
//
//	report := drawcheck.MustReport(drawcheck.New(doc).Check(ctx))
func MustReport[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
