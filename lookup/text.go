package lookup

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var mmValuePattern = regexp.MustCompile(`(?i)(\d+(?:[,\s]\d{3})*(?:\.\d+)?)\s*mm`)

// textLookup searches page plain text line-by-line. On the first line whose
// tokens contain a variant, an explicit "<number> mm" on that line or the
// next wins outright; otherwise every number on those lines is filtered by
// the minimum-plausible threshold and fed to the selection rule.
func (e *Engine) textLookup(ps *PageSet, q Query) Outcome {
	if len(q.Variants) == 0 {
		return Outcome{}
	}
	for page := 1; page <= ps.PageCount(); page++ {
		lines := ps.pageLines[page-1]
		lineTokens := ps.lineTokens[page-1]
		for idx, line := range lines {
			var matched []string
			for _, variant := range q.Variants {
				if containsSubsequence(lineTokens[idx], variant) {
					matched = variant
					break
				}
			}
			if matched == nil {
				continue
			}

			out := Outcome{
				CalloutFound:  true,
				Page:          page,
				Method:        "text",
				MatchedTokens: matched,
			}
			e.fillQuantity(&out, matched, q.BaseTokens)

			candidateLines := []string{line}
			if idx+1 < len(lines) {
				candidateLines = append(candidateLines, lines[idx+1])
			}

			for _, cand := range candidateLines {
				m := mmValuePattern.FindStringSubmatch(cand)
				if m == nil {
					continue
				}
				raw := strings.ReplaceAll(strings.ReplaceAll(m[1], ",", ""), " ", "")
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					continue
				}
				value, selection := e.pickCandidate([]float64{v}, q.Expected, q.PreferMax)
				out.Found = true
				out.Value = value
				out.Selection = selection
				out.Candidates = []float64{v}
				return out
			}

			var numbers []float64
			for _, cand := range candidateLines {
				numbers = append(numbers, extractNumericValues(cand)...)
			}
			threshold := 20.0
			if q.Expected != nil {
				threshold = *q.Expected * 0.5
				if threshold < 1 {
					threshold = 1
				}
			}
			filtered := numbers[:0]
			for _, n := range numbers {
				if n >= threshold && !isOwnNumber(n, q.OwnNumbers) {
					filtered = append(filtered, n)
				}
			}
			if len(filtered) > 0 {
				sort.Sort(sort.Reverse(sort.Float64Slice(filtered)))
				value, selection := e.pickCandidate(filtered, q.Expected, q.PreferMax)
				out.Found = true
				out.Value = value
				out.Selection = selection
				out.Candidates = filtered
				return out
			}

			out.Selection = "none"
			return out
		}
	}
	return Outcome{}
}
