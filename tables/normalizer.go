package tables

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fusiengineers/drawcheck/model"
)

// Warning is a non-fatal normalization finding, reported alongside the
// parsed items rather than logged.
type Warning struct {
	Code    string
	Message string
	Page    int
}

// Warning codes.
const (
	WarnTableUnrecognized = "table_unrecognized"
	WarnRowUnparsable     = "row_unparsable"
)

// Snippet is the flattened text of one accepted table row, used to scrub
// table content out of page text before callout search.
type Snippet struct {
	Page int
	Text string
}

// NormalizerConfig controls header recognition and the line-mode fallback.
// Keyword matching is case-insensitive and ignores punctuation, so "Q'TY"
// and "QTY" match the same set entry.
type NormalizerConfig struct {
	// PosKeywords identify the position-id column.
	PosKeywords []string

	// DescriptionKeywords identify the description column.
	DescriptionKeywords []string

	// LengthKeywords identify a single-value measurement column. Tried
	// before SizeKeywords.
	LengthKeywords []string

	// SizeKeywords identify a measurement column whose cells may encode
	// several acceptable values.
	SizeKeywords []string

	// ThicknessKeywords identify the optional thickness column.
	ThicknessKeywords []string

	// QuantityKeywords identify the optional quantity column.
	QuantityKeywords []string

	// SectionKeywords, when non-empty, restrict grid tables to pages whose
	// text mentions one of the keywords (or whose first table rows do).
	// Empty means every table is considered.
	SectionKeywords []string

	// MinLineTokens is the minimum token count for a line-mode row.
	MinLineTokens int
}

// DefaultNormalizerConfig returns the keyword sets fabrication-drawing BOM
// tables commonly use.
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		PosKeywords:         []string{"POS"},
		DescriptionKeywords: []string{"DESCRIPTION", "DESC"},
		LengthKeywords:      []string{"LENGTH", "LENGTH (MM)", "LENGTHMM"},
		SizeKeywords:        []string{"SIZE", "DIMENSION", "DIMENSIONS"},
		ThicknessKeywords:   []string{"THICKNESS", "THK", "THICK"},
		QuantityKeywords:    []string{"ITEM QTY", "ITEMQTY", "ITEM_QTY", "QTY", "QUANTITY", "Q'TY"},
		SectionKeywords:     nil,
		MinLineTokens:       4,
	}
}

// Normalizer turns raw table grids (or fallback text lines) into items.
type Normalizer struct {
	config NormalizerConfig
}

// NewNormalizer creates a normalizer with the default configuration.
func NewNormalizer() *Normalizer {
	return NewNormalizerWithConfig(DefaultNormalizerConfig())
}

// NewNormalizerWithConfig creates a normalizer with a custom configuration.
func NewNormalizerWithConfig(config NormalizerConfig) *Normalizer {
	if config.MinLineTokens <= 0 {
		config.MinLineTokens = 4
	}
	return &Normalizer{config: config}
}

var (
	posPattern    = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	signedPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)
	nonNumeric    = regexp.MustCompile(`[^\d.,+-]`)
	nonAlnum      = regexp.MustCompile(`[^A-Z0-9]+`)
)

// Normalize parses every table in the document. When grid mode yields no
// rows at all, the page texts are re-scanned in line mode. The returned
// snippets cover every accepted grid row so callers can scrub table content
// from the searchable page text.
func (n *Normalizer) Normalize(doc *model.Document) ([]model.Item, []Snippet, []Warning) {
	var (
		items    []model.Item
		snippets []Snippet
		warnings []Warning
	)
	seen := make(map[string]bool)
	tableCounter := 0

	for _, table := range doc.Tables {
		if len(table.Cells) == 0 {
			continue
		}
		if !n.sectionAllowed(doc, table) {
			continue
		}
		grid := trimGrid(table.Cells)

		layout, ok := n.findHeader(grid)
		if !ok {
			warnings = append(warnings, Warning{
				Code:    WarnTableUnrecognized,
				Message: fmt.Sprintf("table on page %d: no POS/DESCRIPTION/LENGTH header found", table.Page),
				Page:    table.Page,
			})
			continue
		}

		tableCounter++
		label := table.Label
		if label == "" {
			label = tableTitle(grid[:layout.headerRow])
		}
		if label == "" {
			label = fmt.Sprintf("Table %d (page %d)", tableCounter, table.Page)
		}
		group := fmt.Sprintf("t%d-p%d", tableCounter, table.Page)

		for _, cells := range grid[layout.headerRow+1:] {
			item, snippet, ok, reason := n.parseRow(cells, layout)
			if !ok {
				if reason != "" {
					warnings = append(warnings, Warning{
						Code:    WarnRowUnparsable,
						Message: fmt.Sprintf("table %q page %d: %s", label, table.Page, reason),
						Page:    table.Page,
					})
				}
				continue
			}
			item.TableGroup = group
			item.TableLabel = label
			item.TablePage = table.Page
			if key := dedupKey(item); seen[key] {
				continue
			} else {
				seen[key] = true
			}
			items = append(items, item)
			if snippet != "" {
				snippets = append(snippets, Snippet{Page: table.Page, Text: snippet})
			}
		}
	}

	if len(items) == 0 {
		items = append(items, n.linesMode(doc)...)
	}

	return items, snippets, warnings
}

// columnLayout records which column serves which role in one table.
type columnLayout struct {
	headerRow   int
	pos         int
	description int
	measure     int
	measureKind model.MeasureKind
	thickness   int // -1 when absent
	quantity    int // -1 when absent
}

// findHeader scans rows for one containing POS, DESCRIPTION, and a
// measurement column, with the measurement strictly right of both.
func (n *Normalizer) findHeader(grid [][]string) (columnLayout, bool) {
	for rowIdx, row := range grid {
		pos := findColumn(row, n.config.PosKeywords)
		desc := findColumn(row, n.config.DescriptionKeywords)
		measure, kind := n.findMeasurement(row)
		if pos < 0 || desc < 0 || measure < 0 {
			continue
		}
		if measure <= pos || measure <= desc {
			continue
		}
		return columnLayout{
			headerRow:   rowIdx,
			pos:         pos,
			description: desc,
			measure:     measure,
			measureKind: kind,
			thickness:   findColumn(row, n.config.ThicknessKeywords),
			quantity:    findColumn(row, n.config.QuantityKeywords),
		}, true
	}
	return columnLayout{}, false
}

func (n *Normalizer) findMeasurement(row []string) (int, model.MeasureKind) {
	if idx := findColumn(row, n.config.LengthKeywords); idx >= 0 {
		return idx, model.MeasureLength
	}
	if idx := findColumn(row, n.config.SizeKeywords); idx >= 0 {
		return idx, model.MeasureSize
	}
	return -1, model.MeasureLength
}

// parseRow converts one data row. reason is non-empty only for rows that
// looked like data (valid POS) but failed to parse, so header repeats and
// decoration rows stay silent.
func (n *Normalizer) parseRow(cells []string, layout columnLayout) (item model.Item, snippet string, ok bool, reason string) {
	if len(cells) == 0 || layout.pos >= len(cells) {
		return item, "", false, ""
	}
	any := false
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			any = true
			break
		}
	}
	if !any {
		return item, "", false, ""
	}

	posRaw := strings.TrimSpace(cells[layout.pos])
	posValue := strings.ReplaceAll(posRaw, " ", "")
	if !posPattern.MatchString(posValue) {
		return item, "", false, ""
	}

	var descParts []string
	for idx := layout.description; idx < layout.measure && idx < len(cells); idx++ {
		part := strings.TrimSpace(cells[idx])
		if idx == layout.description || part != "" {
			descParts = append(descParts, part)
		}
	}
	description := strings.TrimSpace(strings.Join(descParts, " "))
	if description == "" {
		return item, "", false, fmt.Sprintf("POS %s: empty description", posValue)
	}

	if layout.measure >= len(cells) {
		return item, "", false, fmt.Sprintf("POS %s: missing measurement cell", posValue)
	}
	measureRaw := strings.TrimSpace(cells[layout.measure])
	if measureRaw == "" {
		return item, "", false, fmt.Sprintf("POS %s: empty measurement cell", posValue)
	}

	lengthDisplay := measureRaw
	var lengthOptions []float64
	switch layout.measureKind {
	case model.MeasureLength:
		cleaned := strings.ReplaceAll(nonNumeric.ReplaceAllString(measureRaw, ""), ",", "")
		v, err := strconv.ParseFloat(cleaned, 64)
		if cleaned == "" || err != nil {
			return item, "", false, fmt.Sprintf("POS %s: unparsable length %q", posValue, measureRaw)
		}
		lengthOptions = []float64{v}
		if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(measureRaw)), "mm") {
			lengthDisplay = measureRaw + " mm"
		}
	case model.MeasureSize:
		for _, tok := range numberPattern.FindAllString(strings.ReplaceAll(measureRaw, ",", ""), -1) {
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				lengthOptions = append(lengthOptions, v)
			}
		}
		if len(lengthOptions) == 0 {
			return item, "", false, fmt.Sprintf("POS %s: no numbers in size %q", posValue, measureRaw)
		}
	}

	item = model.Item{
		PositionID:    posValue,
		Description:   description,
		LengthOptions: lengthOptions,
		LengthDisplay: lengthDisplay,
		MeasureKind:   layout.measureKind,
	}

	if layout.thickness >= 0 && layout.thickness < len(cells) {
		if raw := strings.TrimSpace(cells[layout.thickness]); raw != "" {
			item.ThicknessDisplay = raw
			if nums := signedPattern.FindAllString(strings.ReplaceAll(raw, ",", ""), -1); len(nums) > 0 {
				if v, err := strconv.ParseFloat(nums[0], 64); err == nil {
					v = math.Abs(v)
					item.Thickness = &v
				}
			}
		}
	}

	if layout.quantity >= 0 && layout.quantity < len(cells) {
		if raw := strings.TrimSpace(cells[layout.quantity]); raw != "" {
			item.QuantityDisplay = raw
			if nums := signedPattern.FindAllString(strings.ReplaceAll(raw, ",", ""), -1); len(nums) > 0 {
				if v, err := strconv.ParseFloat(nums[0], 64); err == nil {
					item.QuantityValue = &v
				}
			}
		}
	}

	var parts []string
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return item, strings.Join(parts, " "), true, ""
}

// sectionAllowed applies the optional section-keyword gate: the table is
// considered when its page text or its leading rows mention a keyword.
func (n *Normalizer) sectionAllowed(doc *model.Document, table model.RawTable) bool {
	if len(n.config.SectionKeywords) == 0 {
		return true
	}
	pageUpper := strings.ToUpper(doc.TextForPage(table.Page))
	for _, kw := range n.config.SectionKeywords {
		if strings.Contains(pageUpper, strings.ToUpper(kw)) {
			return true
		}
	}
	limit := 2
	if len(table.Cells) < limit {
		limit = len(table.Cells)
	}
	for _, row := range table.Cells[:limit] {
		for _, cell := range row {
			if headerMatches(cell, n.config.SectionKeywords) {
				return true
			}
		}
	}
	return false
}

// headerMatches reports whether cell matches any keyword, comparing both the
// raw uppercase forms and punctuation-stripped forms.
func headerMatches(cell string, keywords []string) bool {
	upper := strings.ToUpper(cell)
	compact := nonAlnum.ReplaceAllString(upper, "")
	for _, kw := range keywords {
		kwUpper := strings.ToUpper(kw)
		kwCompact := nonAlnum.ReplaceAllString(kwUpper, "")
		if strings.Contains(upper, kwUpper) {
			return true
		}
		if kwCompact != "" && strings.Contains(compact, kwCompact) {
			return true
		}
	}
	return false
}

func findColumn(row []string, keywords []string) int {
	if len(keywords) == 0 {
		return -1
	}
	for idx, cell := range row {
		if headerMatches(cell, keywords) {
			return idx
		}
	}
	return -1
}

func trimGrid(cells [][]string) [][]string {
	grid := make([][]string, len(cells))
	for i, row := range cells {
		trimmed := make([]string, len(row))
		for j, cell := range row {
			trimmed[j] = strings.TrimSpace(cell)
		}
		grid[i] = trimmed
	}
	return grid
}

// tableTitle looks above the header for a single non-empty cell long enough
// to serve as the table's label.
func tableTitle(rows [][]string) string {
	title := ""
	for _, row := range rows {
		var nonEmpty []string
		for _, cell := range row {
			if cell != "" {
				nonEmpty = append(nonEmpty, cell)
			}
		}
		if len(nonEmpty) == 1 && len(strings.TrimSpace(nonEmpty[0])) >= 3 {
			title = strings.TrimSpace(nonEmpty[0])
		}
	}
	return title
}

// dedupKey suppresses exact repeats from overlapping extraction passes.
// Distinct rows sharing a position id survive; duplicate-position detection
// happens later in the comparator.
func dedupKey(item model.Item) string {
	var b strings.Builder
	b.WriteString(item.PositionID)
	b.WriteByte('|')
	b.WriteString(item.Description)
	b.WriteByte('|')
	for _, v := range item.LengthOptions {
		fmt.Fprintf(&b, "%.6f,", v)
	}
	b.WriteByte('|')
	b.WriteString(item.MeasureKind.String())
	b.WriteByte('|')
	if item.Thickness != nil {
		fmt.Fprintf(&b, "%.6f", *item.Thickness)
	}
	b.WriteByte('|')
	if item.QuantityValue != nil {
		fmt.Fprintf(&b, "%.6f", *item.QuantityValue)
	} else if item.QuantityDisplay != "" {
		b.WriteString(strings.ToLower(strings.TrimSpace(item.QuantityDisplay)))
	}
	return b.String()
}
