package drawcheck

import (
	"fmt"
	"strings"

	"github.com/fusiengineers/drawcheck/model"
)

// Report is the output of one analysis run: the ordered per-row results and
// their derived summary. Reports are immutable once returned.
type Report struct {
	Results []model.Result
	Summary model.Summary
}

// FormatLength renders a length value for display, trimming a spurious
// fraction: 250.0 becomes "250 mm", 12.5 stays "12.5 mm".
func FormatLength(value float64) string {
	text := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", value), "0"), ".")
	return text + " mm"
}

// FormatReport renders the plain text run report the CLI prints: summary
// counters, duplicate positions, then one line per row.
func FormatReport(report *Report) string {
	if report == nil {
		return ""
	}
	var b strings.Builder
	s := report.Summary
	fmt.Fprintf(&b, "rows: %d  pass: %d  fail: %d\n", s.TotalRows, s.PassCount, s.FailCount)
	fmt.Fprintf(&b, "callout missing: %d  length missing: %d  thickness missing: %d  thickness mismatch: %d\n",
		s.CalloutMissing, s.LengthMissing, s.ThicknessMissing, s.ThicknessMismatch)
	if len(s.DuplicatePositions) > 0 {
		var parts []string
		for _, dup := range s.DuplicatePositions {
			parts = append(parts, fmt.Sprintf("%s POS %s", dup.TableLabel, dup.PositionID))
		}
		fmt.Fprintf(&b, "duplicate positions: %s\n", strings.Join(parts, "; "))
	}
	b.WriteString("\n")

	for _, r := range report.Results {
		fmt.Fprintf(&b, "POS %-6s %-30s %s", r.Item.PositionID, r.Item.Description, r.Status)
		if r.DrawingLength != nil {
			fmt.Fprintf(&b, "  %s (page %d)", FormatLength(*r.DrawingLength), r.DrawingPage)
		}
		if len(r.FailureReasons) > 0 {
			fmt.Fprintf(&b, "  [%s]", strings.Join(r.FailureReasons, "; "))
		}
		if len(r.InfoNotes) > 0 {
			fmt.Fprintf(&b, "  (%s)", strings.Join(r.InfoNotes, "; "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
