package drawcheck_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/fusiengineers/drawcheck"
	"github.com/fusiengineers/drawcheck/model"
)

func scenarioDoc(pageText string, cells [][]string) *model.Document {
	doc := &model.Document{PageTexts: []string{pageText}}
	if cells != nil {
		doc.Tables = []model.RawTable{{Page: 1, Cells: cells}}
	}
	return doc
}

func check(t *testing.T, doc *model.Document) *drawcheck.Report {
	t.Helper()
	report, _, err := drawcheck.New(doc).Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	return report
}

func hasReason(r model.Result, substr string) bool {
	for _, reason := range r.FailureReasons {
		if strings.Contains(reason, substr) {
			return true
		}
	}
	return false
}

func TestCheckMatchingRow(t *testing.T) {
	doc := scenarioDoc(
		"3 BASE PLATE 250\n"+
			"DRAWING VIEW\n"+
			"3 BASE PLATE\n"+
			"250 mm",
		[][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"3", "BASE PLATE", "250"},
		})

	report := check(t, doc)
	if report.Summary.TotalRows != 1 || report.Summary.PassCount != 1 {
		t.Fatalf("summary = %+v", report.Summary)
	}
	r := report.Results[0]
	if r.Status != model.StatusPass {
		t.Fatalf("status = %v, reasons = %v", r.Status, r.FailureReasons)
	}
	if r.DrawingLength == nil || *r.DrawingLength != 250 {
		t.Errorf("drawing length = %v", r.DrawingLength)
	}
	if r.DrawingPage != 1 || r.Method != "text" {
		t.Errorf("result = %+v", r)
	}
}

func TestCheckSingleLineCallout(t *testing.T) {
	// Callout and value on one line, read through the mm pattern.
	doc := scenarioDoc(
		"3 BASE PLATE 250mm",
		[][]string{
			{"POS", "DESCRIPTION", "LENGTH", "QTY"},
			{"3", "BASE PLATE", "250", "2"},
		})

	report := check(t, doc)
	r := report.Results[0]
	if r.Status != model.StatusPass {
		t.Fatalf("status = %v, reasons = %v", r.Status, r.FailureReasons)
	}
	if r.DrawingLength == nil || *r.DrawingLength != 250 {
		t.Errorf("drawing length = %v", r.DrawingLength)
	}
}

func TestCheckLengthMismatch(t *testing.T) {
	doc := scenarioDoc(
		"3 BASE PLATE 250\n"+
			"3 BASE PLATE\n"+
			"180 mm",
		[][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"3", "BASE PLATE", "250"},
		})

	report := check(t, doc)
	r := report.Results[0]
	if r.Status != model.StatusFail {
		t.Fatal("expected failure")
	}
	if !hasReason(r, "length mismatch: drawing 180.0 vs table") {
		t.Errorf("reasons = %v", r.FailureReasons)
	}
	// The table's own row text must not be readable as the drawing value.
	if r.DrawingLength == nil || *r.DrawingLength != 180 {
		t.Errorf("drawing length = %v", r.DrawingLength)
	}
}

func TestCheckDuplicatePositions(t *testing.T) {
	doc := scenarioDoc(
		"5 TANK BRACKET\n"+
			"250 mm\n"+
			"5 PIPE SUPPORT\n"+
			"300 mm",
		[][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"5", "TANK BRACKET", "250"},
			{"5", "PIPE SUPPORT", "300"},
		})

	report := check(t, doc)
	if len(report.Results) != 2 {
		t.Fatalf("results = %+v", report.Results)
	}
	for i, r := range report.Results {
		if !r.DuplicatePosition {
			t.Errorf("result %d not flagged duplicate", i)
		}
		if r.Status != model.StatusFail {
			t.Errorf("result %d status = %v", i, r.Status)
		}
		if !hasReason(r, "duplicate POS") {
			t.Errorf("result %d reasons = %v", i, r.FailureReasons)
		}
	}
	if len(report.Summary.DuplicatePositions) != 1 {
		t.Errorf("summary duplicates = %v", report.Summary.DuplicatePositions)
	}
}

func TestCheckLineModeDuplicateAcrossPages(t *testing.T) {
	// Without any grid table, rows come from line mode and pool into one
	// group, so a position id repeated on a later page is a duplicate.
	doc := &model.Document{PageTexts: []string{
		"5 TANK BRACKET 250",
		"5 PIPE SUPPORT 300",
	}}

	report := check(t, doc)
	if len(report.Results) != 2 {
		t.Fatalf("results = %+v", report.Results)
	}
	for i, r := range report.Results {
		if !r.DuplicatePosition || r.Status != model.StatusFail {
			t.Errorf("result %d = %+v", i, r)
		}
		if !hasReason(r, "duplicate POS in Table 1") {
			t.Errorf("result %d reasons = %v", i, r.FailureReasons)
		}
	}
}

func TestCheckCalloutMissing(t *testing.T) {
	doc := scenarioDoc(
		"12 GHOST PART 100\n"+
			"DRAWING WITHOUT THAT CALLOUT\n"+
			"SOME OTHER NOTE",
		[][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"12", "GHOST PART", "100"},
		})

	report := check(t, doc)
	r := report.Results[0]
	if r.Status != model.StatusFail || !hasReason(r, "callout missing") {
		t.Fatalf("status %v reasons %v", r.Status, r.FailureReasons)
	}
	if report.Summary.CalloutMissing != 1 {
		t.Errorf("summary = %+v", report.Summary)
	}
}

func TestCheckSizeOptionsEitherDimension(t *testing.T) {
	doc := scenarioDoc(
		"8 ANGLE\n"+
			"50 mm",
		[][]string{
			{"POS", "DESC", "SIZE"},
			{"8", "ANGLE", "100 x 50"},
		})

	report := check(t, doc)
	r := report.Results[0]
	if r.Status != model.StatusPass {
		t.Fatalf("status = %v, reasons = %v", r.Status, r.FailureReasons)
	}
	if r.DrawingLength == nil || *r.DrawingLength != 50 {
		t.Errorf("drawing length = %v", r.DrawingLength)
	}
}

func TestCheckNoRows(t *testing.T) {
	doc := scenarioDoc("GENERAL NOTES ONLY", nil)

	report, warnings, err := drawcheck.New(doc).Check(context.Background())
	if !errors.Is(err, drawcheck.ErrNoRows) {
		t.Fatalf("err = %v, want ErrNoRows", err)
	}
	if report != nil {
		t.Errorf("report = %+v, want nil", report)
	}
	codes := make(map[string]bool)
	for _, w := range warnings {
		codes[w.Code] = true
	}
	if !codes[drawcheck.WarnNoTables] || !codes[drawcheck.WarnNoPageWords] {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestCheckUnrecognizedTableWarning(t *testing.T) {
	doc := scenarioDoc(
		"3 BASE PLATE\n250 mm",
		[][]string{
			{"WELD", "SYMBOL", "REF"},
			{"A", "FILLET", "W1"},
		})

	// Line mode may or may not salvage rows; either way the warning must
	// surface.
	_, warnings, _ := drawcheck.New(doc).Check(context.Background())
	found := false
	for _, w := range warnings {
		if w.Code == drawcheck.WarnTableUnrecognized {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestCheckIdempotent(t *testing.T) {
	doc := scenarioDoc(
		"3 BASE PLATE\n250 mm\n5 TANK BRACKET\n300 mm",
		[][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"3", "BASE PLATE", "250"},
			{"5", "TANK BRACKET", "300"},
		})

	first := check(t, doc)
	for i := 0; i < 3; i++ {
		again := check(t, doc)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
}

func TestCheckWorkersMatchSequential(t *testing.T) {
	doc := scenarioDoc(
		"1 BEAM\n100 mm\n2 COLUMN\n200 mm\n3 GIRDER\n300 mm\n4 PURLIN\n400 mm",
		[][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"1", "BEAM", "100"},
			{"2", "COLUMN", "200"},
			{"3", "GIRDER", "300"},
			{"4", "PURLIN", "400"},
		})

	sequential := check(t, doc)
	parallel, _, err := drawcheck.New(doc).Workers(4).Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !reflect.DeepEqual(sequential, parallel) {
		t.Fatalf("parallel run differs:\n%+v\n%+v", sequential, parallel)
	}
}

func TestCheckCancelled(t *testing.T) {
	doc := scenarioDoc(
		"3 BASE PLATE\n250 mm",
		[][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"3", "BASE PLATE", "250"},
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := drawcheck.New(doc).Check(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCheckerOptionErrors(t *testing.T) {
	doc := scenarioDoc("", nil)

	if _, _, err := drawcheck.New(doc).Tolerance(-1).Check(context.Background()); err == nil {
		t.Error("negative tolerance accepted")
	}
	if _, _, err := drawcheck.New(nil).Check(context.Background()); err == nil {
		t.Error("nil document accepted")
	}
}

func TestCheckerChainsAreIndependent(t *testing.T) {
	doc := scenarioDoc(
		"3 BASE PLATE\n250 mm",
		[][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"3", "BASE PLATE", "250"},
		})

	base := drawcheck.New(doc)
	loose := base.Tolerance(100)
	strict := base.Tolerance(0.1)

	looseReport, _, err := loose.Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	strictReport, _, err := strict.Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if looseReport.Summary.PassCount != 1 || strictReport.Summary.PassCount != 1 {
		t.Errorf("summaries = %+v / %+v", looseReport.Summary, strictReport.Summary)
	}
}

func TestCheckSectionKeywords(t *testing.T) {
	doc := scenarioDoc(
		"GENERAL ARRANGEMENT\n3 BASE PLATE\n250 mm",
		[][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"3", "BASE PLATE", "250"},
		})

	_, _, err := drawcheck.New(doc).SectionKeywords("STEEL").Check(context.Background())
	if !errors.Is(err, drawcheck.ErrNoRows) {
		t.Fatalf("err = %v, want ErrNoRows when no page mentions the section", err)
	}

	report, _, err := drawcheck.New(doc).SectionKeywords("ARRANGEMENT").Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Summary.TotalRows != 1 {
		t.Errorf("summary = %+v", report.Summary)
	}
}

func TestFormatLength(t *testing.T) {
	if got := drawcheck.FormatLength(250); got != "250 mm" {
		t.Errorf("got %q", got)
	}
	if got := drawcheck.FormatLength(12.5); got != "12.5 mm" {
		t.Errorf("got %q", got)
	}
}

func TestFormatReport(t *testing.T) {
	doc := scenarioDoc(
		"3 BASE PLATE\n250 mm",
		[][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"3", "BASE PLATE", "250"},
		})

	text := drawcheck.FormatReport(check(t, doc))
	if !strings.Contains(text, "rows: 1  pass: 1  fail: 0") {
		t.Errorf("report:\n%s", text)
	}
	if !strings.Contains(text, "POS 3") || !strings.Contains(text, "250 mm (page 1)") {
		t.Errorf("report:\n%s", text)
	}

	if drawcheck.FormatReport(nil) != "" {
		t.Error("nil report must render empty")
	}
}
