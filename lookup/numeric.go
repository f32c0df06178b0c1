package lookup

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	signedNumberPattern  = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)
	groupedNumberPattern = regexp.MustCompile(`\d+(?:[,\s]\d{3})*(?:\.\d+)?`)
	alphaRunPattern      = regexp.MustCompile(`[A-Za-z]+`)
)

// numericReplacer normalizes the symbols drawings glue onto dimensions:
// multiplication and diameter marks, unicode dashes, and list punctuation
// all become separators so "2xØ120" yields 2 and 120.
var numericReplacer = strings.NewReplacer(
	",", "",
	"−", "-", "–", "-", "—", "-",
	"Ø", " ", "ø", " ", "φ", " ", "Φ", " ", "⌀", " ", "∅", " ",
	"×", " ", "·", " ", "*", " ",
	"X", " ", "x", " ",
	"\\", " ", "/", " ",
	";", " ", ":", " ",
)

// numericFromText extracts every number embedded in one word's text.
func numericFromText(text string) []float64 {
	if text == "" {
		return nil
	}
	cleaned := numericReplacer.Replace(text)
	cleaned = strings.Trim(cleaned, "()[]{}<>")
	cleaned = alphaRunPattern.ReplaceAllString(cleaned, " ")
	var numbers []float64
	for _, m := range signedNumberPattern.FindAllString(cleaned, -1) {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			numbers = append(numbers, v)
		}
	}
	return numbers
}

// extractNumericValues pulls numbers out of running text, tolerating
// thousands separators ("1,250" and "1 250" both parse as 1250).
func extractNumericValues(text string) []float64 {
	var values []float64
	for _, m := range groupedNumberPattern.FindAllString(text, -1) {
		candidate := strings.ReplaceAll(strings.ReplaceAll(m, " ", ""), ",", "")
		if v, err := strconv.ParseFloat(candidate, 64); err == nil {
			values = append(values, v)
		}
	}
	return values
}

// OwnNumbers returns the numeric values embedded in an item description,
// which the engine excludes from candidacy.
func OwnNumbers(description string) []float64 {
	return extractNumericValues(description)
}

// pickCandidate applies the selection rule. With no expected value the
// largest candidate wins. preferMax (the length rule) takes the first
// candidate within tolerance of expected, else the largest. Otherwise (the
// thickness rule) the numerically closest wins, ties toward the larger
// value. selection is "none" when candidates is empty.
func (e *Engine) pickCandidate(candidates []float64, expected *float64, preferMax bool) (float64, string) {
	if len(candidates) == 0 {
		return 0, "none"
	}
	ordered := make([]float64, len(candidates))
	copy(ordered, candidates)
	sort.Sort(sort.Reverse(sort.Float64Slice(ordered)))

	if expected == nil {
		return ordered[0], "max_in_window"
	}
	if preferMax {
		for _, v := range ordered {
			if math.Abs(v-*expected) <= e.config.Tolerance {
				return v, "match_expected"
			}
		}
		return ordered[0], "max_in_window"
	}

	best := candidates[0]
	bestDist := math.Abs(best - *expected)
	for _, v := range candidates[1:] {
		d := math.Abs(v - *expected)
		if d < bestDist || (d == bestDist && v > best) {
			best = v
			bestDist = d
		}
	}
	return best, "closest_to_expected"
}
