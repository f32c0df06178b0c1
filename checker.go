package drawcheck

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fusiengineers/drawcheck/lookup"
	"github.com/fusiengineers/drawcheck/match"
	"github.com/fusiengineers/drawcheck/model"
	"github.com/fusiengineers/drawcheck/tables"
	"github.com/fusiengineers/drawcheck/verdict"
)

// ErrNoRows is returned when no BOM rows could be extracted at all, in grid
// or line mode. It is the only whole-run failure: every other condition is
// localized to one row or one table and reported as a warning or a FAIL
// verdict.
var ErrNoRows = errors.New("drawcheck: no BOM rows extracted")

// Checker runs the verification pipeline over one document. Each
// configuration method returns a new Checker, making chains safe for
// concurrent use.
type Checker struct {
	doc     *model.Document
	options checkOptions
	err     error
}

// clone creates a copy with deep-copied options.
func (c *Checker) clone() *Checker {
	return &Checker{
		doc:     c.doc,
		options: c.options.clone(),
		err:     c.err,
	}
}

// Tolerance sets the numeric match tolerance in mm. Default 0.5.
func (c *Checker) Tolerance(mm float64) *Checker {
	newC := c.clone()
	if mm <= 0 {
		newC.err = fmt.Errorf("tolerance must be positive, got %g", mm)
		return newC
	}
	newC.options.tolerance = mm
	return newC
}

// Workers sets how many goroutines run per-item lookups. Lookups are
// read-only over shared page data, so any positive count is safe; results
// are reassembled in row order before the comparator runs. Default 1.
func (c *Checker) Workers(n int) *Checker {
	newC := c.clone()
	if n < 1 {
		n = 1
	}
	newC.options.workers = n
	return newC
}

// NormalizerConfig replaces the table normalizer configuration, for sites
// with localized column headers. The config is copied, so later changes to
// the caller's slices do not leak into the chain.
func (c *Checker) NormalizerConfig(config tables.NormalizerConfig) *Checker {
	newC := c.clone()
	newC.options.normalizer = config
	newC.options = newC.options.clone()
	return newC
}

// SectionKeywords restricts grid tables to pages mentioning one of the
// keywords. Empty (the default) accepts every table.
func (c *Checker) SectionKeywords(keywords ...string) *Checker {
	newC := c.clone()
	newC.options.normalizer.SectionKeywords = append([]string(nil), keywords...)
	return newC
}

// TieBreak sets the policy for ordering geometric candidates of equal
// value. The default prefers horizontal proximity to the callout center.
func (c *Checker) TieBreak(less func(a, b lookup.Candidate) bool) *Checker {
	newC := c.clone()
	newC.options.tieBreak = less
	return newC
}

// Check runs the full pipeline: normalize, scrub table content, resolve and
// look up each row, compare, summarize. Warnings are non-fatal findings;
// the error is non-nil only for invalid configuration, cancellation, or the
// no-rows boundary condition [ErrNoRows].
func (c *Checker) Check(ctx context.Context) (*Report, []Warning, error) {
	if c.err != nil {
		return nil, nil, c.err
	}
	if c.doc == nil {
		return nil, nil, fmt.Errorf("no document supplied")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var warnings []Warning
	if len(c.doc.Tables) == 0 {
		warnings = append(warnings, Warning{
			Code:    WarnNoTables,
			Message: "no table grids in document, trying line-mode row extraction",
		})
	}
	hasWords := false
	for _, pw := range c.doc.PageWords {
		if len(pw) > 0 {
			hasWords = true
			break
		}
	}
	if !hasWords {
		warnings = append(warnings, Warning{
			Code:    WarnNoPageWords,
			Message: "no word-level geometry, lookups will use text fallback only",
		})
	}

	normalizer := tables.NewNormalizerWithConfig(c.options.normalizer)
	items, snippets, tableWarnings := normalizer.Normalize(c.doc)
	for _, w := range tableWarnings {
		warnings = append(warnings, Warning{Code: w.Code, Message: w.Message, Page: w.Page})
	}
	if len(items) == 0 {
		return nil, warnings, ErrNoRows
	}

	pageSet := lookup.NewPageSet(c.doc, snippets)
	engineConfig := lookup.DefaultConfig()
	engineConfig.Tolerance = c.options.tolerance
	if c.options.tieBreak != nil {
		engineConfig.TieBreak = c.options.tieBreak
	}
	engine := lookup.NewEngineWithConfig(engineConfig)

	duplicates, _ := verdict.AnalyzeDuplicates(items)
	comparator := verdict.NewComparatorWithTolerance(c.options.tolerance)

	results := make([]model.Result, len(items))
	if err := c.runLookups(ctx, engine, pageSet, comparator, items, duplicates, results); err != nil {
		return nil, warnings, err
	}

	report := &Report{
		Results: results,
		Summary: verdict.Summarize(results),
	}
	return report, warnings, nil
}

// runLookups evaluates every item, optionally across a worker pool. Each
// worker reads shared page data and writes only its own result slot, so no
// locking is needed beyond the index feed.
func (c *Checker) runLookups(ctx context.Context, engine *lookup.Engine, pageSet *lookup.PageSet, comparator *verdict.Comparator, items []model.Item, duplicates []bool, results []model.Result) error {
	workers := c.options.workers
	if workers > len(items) {
		workers = len(items)
	}

	if workers <= 1 {
		for i, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.evaluateItem(engine, pageSet, comparator, item, duplicates[i])
		}
		return nil
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = c.evaluateItem(engine, pageSet, comparator, items[i], duplicates[i])
			}
		}()
	}

	var err error
feed:
	for i := range items {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()
	return err
}

// evaluateItem runs the length lookup (and thickness lookup when required)
// for one row and hands the outcomes to the comparator.
func (c *Checker) evaluateItem(engine *lookup.Engine, pageSet *lookup.PageSet, comparator *verdict.Comparator, item model.Item, duplicate bool) model.Result {
	variants, base := match.Variants(item)
	ownNumbers := lookup.OwnNumbers(item.Description)

	query := lookup.Query{
		Variants:   variants,
		BaseTokens: base,
		OwnNumbers: ownNumbers,
		PreferMax:  true,
	}
	if expected, ok := item.ExpectedLength(); ok {
		e := expected
		query.Expected = &e
	}
	lengthOut := engine.Find(pageSet, query)

	var thicknessOut *lookup.Outcome
	if item.Thickness != nil {
		thicknessQuery := lookup.Query{
			Variants:   variants,
			BaseTokens: base,
			OwnNumbers: ownNumbers,
			Expected:   item.Thickness,
			PreferMax:  false,
		}
		out := engine.Find(pageSet, thicknessQuery)
		thicknessOut = &out
	}

	return comparator.Evaluate(item, lengthOut, thicknessOut, duplicate)
}
