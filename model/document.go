package model

// Word is one extracted word on a drawing sheet with its bounding box.
type Word struct {
	Text string
	Box  Rect
}

// RawTable is one detected table on a page, as delivered by the extraction
// layer: a cell grid plus the page regions the table occupies. Regions are
// used to keep table cells out of the callout search; they never affect row
// parsing.
type RawTable struct {
	Page    int // 1-indexed
	Label   string
	Cells   [][]string
	Regions []Rect
}

// Document bundles the extracted primitives the engine consumes: per-page
// plain text, per-page word lists, and raw tables. Index 0 of PageTexts and
// PageWords corresponds to page 1. PageWords may be nil or shorter than
// PageTexts when word-level geometry is unavailable; the engine then falls
// back to text search.
type Document struct {
	PageTexts []string
	PageWords [][]Word
	Tables    []RawTable
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return len(d.PageTexts)
}

// WordsForPage returns the word list for a 1-indexed page, or nil when the
// page has no word-level data.
func (d *Document) WordsForPage(page int) []Word {
	if page < 1 || page > len(d.PageWords) {
		return nil
	}
	return d.PageWords[page-1]
}

// TextForPage returns the plain text for a 1-indexed page.
func (d *Document) TextForPage(page int) string {
	if page < 1 || page > len(d.PageTexts) {
		return ""
	}
	return d.PageTexts[page-1]
}
