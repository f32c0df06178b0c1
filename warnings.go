package drawcheck

import (
	"fmt"
	"strings"
)

// Warning describes a non-fatal condition encountered during analysis.
// Warnings are returned alongside the report, never logged by the library.
type Warning struct {
	// Code is a stable machine-readable identifier.
	Code string
	// Message is the human-readable description.
	Message string
	// Page is the 1-indexed page the condition occurred on, 0 when it is
	// not page-specific.
	Page int
}

// Warning codes.
const (
	// WarnTableUnrecognized: a table lacked the required header columns
	// and yielded no rows.
	WarnTableUnrecognized = "table_unrecognized"
	// WarnRowUnparsable: a data row failed POS or measurement parsing and
	// was skipped.
	WarnRowUnparsable = "row_unparsable"
	// WarnNoTables: the document carried no table grids; rows came from
	// the line-mode fallback.
	WarnNoTables = "no_tables"
	// WarnNoPageWords: no word-level geometry was available; every lookup
	// used the text fallback.
	WarnNoPageWords = "page_words_missing"
)

// FormatWarnings joins warnings into a single display string, one per line.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		if w.Page > 0 {
			lines[i] = fmt.Sprintf("[%s] page %d: %s", w.Code, w.Page, w.Message)
		} else {
			lines[i] = fmt.Sprintf("[%s] %s", w.Code, w.Message)
		}
	}
	return strings.Join(lines, "\n")
}
