package tables

import (
	"reflect"
	"strings"
	"testing"

	"github.com/fusiengineers/drawcheck/model"
)

func gridDoc(tables ...model.RawTable) *model.Document {
	return &model.Document{Tables: tables}
}

func TestNormalizeGrid(t *testing.T) {
	doc := gridDoc(model.RawTable{
		Page: 1,
		Cells: [][]string{
			{"STEEL PARTS LIST", "", "", ""},
			{"POS", "DESCRIPTION", "LENGTH", "QTY"},
			{"3", "BASE PLATE", "250", "2"},
			{"4", "TANK BRACKET", "1,200", ""},
		},
	})

	items, snippets, warnings := NewNormalizer().Normalize(doc)
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first := items[0]
	if first.PositionID != "3" || first.Description != "BASE PLATE" {
		t.Errorf("first item = %+v", first)
	}
	if !reflect.DeepEqual(first.LengthOptions, []float64{250}) {
		t.Errorf("length options = %v", first.LengthOptions)
	}
	if first.LengthDisplay != "250 mm" {
		t.Errorf("length display = %q", first.LengthDisplay)
	}
	if first.MeasureKind != model.MeasureLength {
		t.Errorf("measure kind = %v", first.MeasureKind)
	}
	if first.QuantityValue == nil || *first.QuantityValue != 2 || first.QuantityDisplay != "2" {
		t.Errorf("quantity = %v %q", first.QuantityValue, first.QuantityDisplay)
	}
	if first.TableLabel != "STEEL PARTS LIST" {
		t.Errorf("label = %q", first.TableLabel)
	}
	if first.TablePage != 1 || first.TableGroup == "" {
		t.Errorf("page/group = %d %q", first.TablePage, first.TableGroup)
	}

	// Thousands separators in the measurement cell must not split the value.
	if !reflect.DeepEqual(items[1].LengthOptions, []float64{1200}) {
		t.Errorf("second length options = %v", items[1].LengthOptions)
	}

	if len(snippets) != 2 {
		t.Fatalf("got %d snippets, want 2", len(snippets))
	}
	if snippets[0].Text != "3 BASE PLATE 250 2" || snippets[0].Page != 1 {
		t.Errorf("snippet = %+v", snippets[0])
	}
}

func TestNormalizeSizeColumn(t *testing.T) {
	doc := gridDoc(model.RawTable{
		Page: 2,
		Cells: [][]string{
			{"POS", "DESC", "SIZE"},
			{"7", "ANGLE 50x50", "100 x 50"},
		},
	})

	items, _, warnings := NewNormalizer().Normalize(doc)
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	item := items[0]
	if item.MeasureKind != model.MeasureSize {
		t.Errorf("measure kind = %v", item.MeasureKind)
	}
	if !reflect.DeepEqual(item.LengthOptions, []float64{100, 50}) {
		t.Errorf("length options = %v", item.LengthOptions)
	}
	// Size cells keep their raw display; no unit is implied.
	if item.LengthDisplay != "100 x 50" {
		t.Errorf("length display = %q", item.LengthDisplay)
	}
	if _, ok := item.ExpectedLength(); !ok {
		t.Error("expected length missing")
	}
}

func TestNormalizeThickness(t *testing.T) {
	doc := gridDoc(model.RawTable{
		Page: 1,
		Cells: [][]string{
			{"POS", "DESCRIPTION", "LENGTH", "THK"},
			{"1", "GUSSET", "300", "-10"},
			{"2", "RIB", "200", "t=8"},
		},
	})

	items, _, _ := NewNormalizer().Normalize(doc)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	// Sign conventions vary across drafters; thickness is magnitude only.
	if items[0].Thickness == nil || *items[0].Thickness != 10 {
		t.Errorf("thickness = %v", items[0].Thickness)
	}
	if items[0].ThicknessDisplay != "-10" {
		t.Errorf("thickness display = %q", items[0].ThicknessDisplay)
	}
	if items[1].Thickness == nil || *items[1].Thickness != 8 {
		t.Errorf("thickness = %v", items[1].Thickness)
	}
}

func TestNormalizeHeaderColumnOrder(t *testing.T) {
	// A measurement column left of POS cannot be a BOM header.
	doc := gridDoc(model.RawTable{
		Page: 1,
		Cells: [][]string{
			{"LENGTH", "POS", "DESCRIPTION"},
			{"250", "3", "BASE PLATE"},
		},
	})

	items, _, warnings := NewNormalizer().Normalize(doc)
	if len(items) != 0 {
		t.Fatalf("items = %v", items)
	}
	if len(warnings) != 1 || warnings[0].Code != WarnTableUnrecognized {
		t.Fatalf("warnings = %v", warnings)
	}
}

func TestNormalizeRowWarnings(t *testing.T) {
	doc := gridDoc(model.RawTable{
		Page: 1,
		Cells: [][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"5", "TANK BRACKET", ""},
			{"", "", ""},
			{"NOTES:", "SEE SHEET 2", ""},
		},
	})

	items, _, warnings := NewNormalizer().Normalize(doc)
	if len(items) != 0 {
		t.Fatalf("items = %v", items)
	}
	// Only the row with a valid POS warrants a warning; blank and
	// decoration rows stay silent.
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v", warnings)
	}
	if warnings[0].Code != WarnRowUnparsable || !strings.Contains(warnings[0].Message, "POS 5") {
		t.Errorf("warning = %+v", warnings[0])
	}
}

func TestNormalizeDedup(t *testing.T) {
	row := []string{"3", "BASE PLATE", "250"}
	header := []string{"POS", "DESCRIPTION", "LENGTH"}
	doc := gridDoc(
		model.RawTable{Page: 1, Cells: [][]string{header, row, row}},
		model.RawTable{Page: 1, Cells: [][]string{header, row}},
	)

	items, _, _ := NewNormalizer().Normalize(doc)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1: %v", len(items), items)
	}
}

func TestNormalizeKeepsDistinctRowsSharingPos(t *testing.T) {
	doc := gridDoc(model.RawTable{
		Page: 1,
		Cells: [][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"5", "TANK BRACKET", "250"},
			{"5", "PIPE SUPPORT", "300"},
		},
	})

	items, _, _ := NewNormalizer().Normalize(doc)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
}

func TestNormalizeSectionKeywords(t *testing.T) {
	table := model.RawTable{
		Page: 1,
		Cells: [][]string{
			{"POS", "DESCRIPTION", "LENGTH"},
			{"3", "BASE PLATE", "250"},
		},
	}

	cfg := DefaultNormalizerConfig()
	cfg.SectionKeywords = []string{"STEEL"}
	n := NewNormalizerWithConfig(cfg)

	doc := gridDoc(table)
	doc.PageTexts = []string{"GENERAL NOTES"}
	if items, _, _ := n.Normalize(doc); len(items) != 0 {
		t.Errorf("table accepted without section keyword: %v", items)
	}

	doc.PageTexts = []string{"STEEL STRUCTURE PLAN"}
	if items, _, _ := n.Normalize(doc); len(items) != 1 {
		t.Errorf("table rejected despite section keyword on page")
	}
}

func TestNormalizeQuantityHeaderForms(t *testing.T) {
	for _, header := range []string{"QTY", "Q'TY", "ITEM QTY", "QUANTITY"} {
		doc := gridDoc(model.RawTable{
			Page: 1,
			Cells: [][]string{
				{"POS", "DESCRIPTION", "LENGTH", header},
				{"1", "BEAM", "500", "3"},
			},
		})
		items, _, _ := NewNormalizer().Normalize(doc)
		if len(items) != 1 || items[0].QuantityValue == nil || *items[0].QuantityValue != 3 {
			t.Errorf("header %q: items = %+v", header, items)
		}
	}
}

func TestLinesModeFallback(t *testing.T) {
	doc := &model.Document{
		PageTexts: []string{
			"SOME TITLE BLOCK\n" +
				"3 BASE PLATE PL10 250 mm\n" +
				"4 TANK BRACKET L50x50 1200mm\n" +
				"5 EDGE STIFFENER FB 300\n" +
				"note without numbers at all here",
		},
	}

	items, snippets, warnings := NewNormalizer().Normalize(doc)
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	if len(snippets) != 0 {
		t.Fatalf("line mode must not emit snippets, got %v", snippets)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3: %+v", len(items), items)
	}

	if items[0].Description != "BASE PLATE PL10" || items[0].LengthOptions[0] != 250 {
		t.Errorf("item 0 = %+v", items[0])
	}
	if items[0].LengthDisplay != "250 mm" {
		t.Errorf("item 0 display = %q", items[0].LengthDisplay)
	}

	if items[1].LengthOptions[0] != 1200 || items[1].LengthDisplay != "1200mm" {
		t.Errorf("item 1 = %+v", items[1])
	}

	// Bare trailing number counts as a millimetre length.
	if items[2].LengthOptions[0] != 300 || items[2].LengthDisplay != "300 mm" {
		t.Errorf("item 2 = %+v", items[2])
	}

	if items[0].TableGroup != "lines" || items[0].TableLabel != "Table 1" {
		t.Errorf("item 0 table fields = %q %q", items[0].TableGroup, items[0].TableLabel)
	}
}

func TestLinesModeGroupSpansPages(t *testing.T) {
	doc := &model.Document{
		PageTexts: []string{
			"5 TANK BRACKET 250",
			"5 PIPE SUPPORT 300",
		},
	}

	items, _, _ := NewNormalizer().Normalize(doc)
	if len(items) != 2 {
		t.Fatalf("items = %+v", items)
	}
	// Rows from different pages share one group so duplicate position
	// detection sees both.
	if items[0].TableGroup != items[1].TableGroup {
		t.Errorf("groups = %q vs %q", items[0].TableGroup, items[1].TableGroup)
	}
	if items[0].TablePage != 1 || items[1].TablePage != 2 {
		t.Errorf("pages = %d, %d", items[0].TablePage, items[1].TablePage)
	}
}

func TestLinesModeSkippedWhenGridSucceeds(t *testing.T) {
	doc := &model.Document{
		PageTexts: []string{"9 PHANTOM ROW XX 999 mm"},
		Tables: []model.RawTable{{
			Page: 1,
			Cells: [][]string{
				{"POS", "DESCRIPTION", "LENGTH"},
				{"3", "BASE PLATE", "250"},
			},
		}},
	}

	items, _, _ := NewNormalizer().Normalize(doc)
	if len(items) != 1 || items[0].PositionID != "3" {
		t.Fatalf("items = %+v", items)
	}
}

func TestParseLineRejects(t *testing.T) {
	n := NewNormalizer()
	for _, line := range []string{
		"",
		"BASE PLATE 250 mm",      // no position id
		"3 250",                  // too few tokens
		"3 BASE PLATE DETAIL",    // no trailing length
		"3.2 SEE DETAIL A mm mm", // unparsable length
	} {
		if _, ok := n.parseLine(line); ok {
			t.Errorf("parseLine(%q) accepted", line)
		}
	}
}
