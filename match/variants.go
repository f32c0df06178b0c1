package match

import (
	"strconv"
	"strings"

	"github.com/fusiengineers/drawcheck/model"
)

// quantityUnitSuffixes are the unit abbreviations a drawing callout commonly
// appends to a quantity when the table itself stated only a bare number.
var quantityUnitSuffixes = []string{"pc", "pcs", "ea", "each", "no", "nos", "off", "qty"}

// variantSet accumulates token sequences, de-duplicating while preserving
// first-occurrence order so the caller's "first match wins" rule is stable.
type variantSet struct {
	variants [][]string
	seen     map[string]bool
}

func newVariantSet() *variantSet {
	return &variantSet{seen: make(map[string]bool)}
}

func (vs *variantSet) add(tokens []string) {
	filtered := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			filtered = append(filtered, tok)
		}
	}
	if len(filtered) == 0 {
		return
	}
	key := strings.Join(filtered, "\x00")
	if vs.seen[key] {
		return
	}
	vs.seen[key] = true
	vs.variants = append(vs.variants, filtered)
}

// QuantityVariants builds the token forms a quantity may take in a callout:
// the display text split into tokens, its compressed no-space form, the bare
// numeric value, and, only when the display contains no letters, the numeric
// value paired and fused with common unit abbreviations. A display with
// letters already names its unit, so synthetic suffixes would only invite
// false matches.
func QuantityVariants(display string, value *float64) [][]string {
	vs := newVariantSet()

	if cleaned := strings.TrimSpace(display); cleaned != "" {
		var split []string
		for _, part := range strings.FieldsFunc(cleaned, func(r rune) bool {
			return r == '(' || r == ')' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		}) {
			if tok := NormalizeToken(part); tok != "" {
				split = append(split, tok)
			}
		}
		vs.add(split)

		compressed := strings.Map(func(r rune) rune {
			switch r {
			case '(', ')', ' ', '\t', '\n', '\r':
				return -1
			}
			return r
		}, cleaned)
		if tok := NormalizeToken(compressed); tok != "" {
			vs.add([]string{tok})
		}
	}

	var numeric string
	if value != nil {
		numeric = NormalizeToken(strconv.FormatFloat(*value, 'g', -1, 64))
		if numeric != "" {
			vs.add([]string{numeric})
		}
	}

	if numeric != "" && !containsLetter(display) {
		for _, suffix := range quantityUnitSuffixes {
			vs.add([]string{numeric, suffix})
			vs.add([]string{numeric + suffix})
		}
	}

	return vs.variants
}

func containsLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// Variants generates the ordered token-sequence hypotheses for an item's
// callout, most specific first:
//
//  1. base tokens combined with each quantity variant
//  2. the position id alone
//  3. base tokens alone
//  4. position id with the full description, in both relative orders
//  5. the description alone, and with the position id stripped
//  6. every contiguous description subsequence, bare and with the position
//     id prefixed or suffixed
//
// Base tokens are the position id followed by the description with any token
// equal to the bare id removed, so "3 BRACKET 3" does not double the id.
// The second return value is that base sequence; the lookup engine uses it
// to tell quantity tokens apart from the callout proper.
func Variants(item model.Item) (variants [][]string, base []string) {
	posToken := NormalizeToken(item.PositionID)
	descTokens := Tokenize(item.Description)

	descWithoutPos := descTokens
	if posToken != "" {
		descWithoutPos = make([]string, 0, len(descTokens))
		for _, tok := range descTokens {
			if tok != posToken {
				descWithoutPos = append(descWithoutPos, tok)
			}
		}
	}

	base = make([]string, 0, len(descTokens)+1)
	if posToken != "" {
		base = append(base, posToken)
	}
	if len(descWithoutPos) > 0 {
		base = append(base, descWithoutPos...)
	} else {
		base = append(base, descTokens...)
	}

	vs := newVariantSet()

	for _, qty := range QuantityVariants(item.QuantityDisplay, item.QuantityValue) {
		combined := make([]string, 0, len(base)+len(qty))
		combined = append(combined, base...)
		combined = append(combined, qty...)
		vs.add(combined)
	}

	if posToken != "" {
		vs.add([]string{posToken})
	}

	vs.add(base)

	// Tolerate callouts that reorder or restate tokens.
	if posToken != "" {
		vs.add(append([]string{posToken}, descTokens...))
		vs.add(append(append([]string{}, descTokens...), posToken))
	}
	vs.add(descTokens)
	vs.add(descWithoutPos)

	// Contiguous subsequences cope with truncated callouts.
	n := len(descTokens)
	for i := 0; i < n; i++ {
		for j := i + 1; j <= n; j++ {
			subseq := descTokens[i:j]
			vs.add(subseq)
			if posToken != "" {
				vs.add(append([]string{posToken}, subseq...))
				vs.add(append(append([]string{}, subseq...), posToken))
			}
		}
	}

	return vs.variants, base
}
