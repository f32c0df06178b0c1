package lookup

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
)

var quantityUnits = map[string]string{
	"pc": "PC", "pcs": "PCS",
	"no": "NO", "nos": "NOS",
	"ea": "EA", "each": "EACH",
	"set": "SET", "sets": "SETS",
	"unit": "UNIT", "units": "UNITS",
	"off": "OFF", "qty": "QTY",
}

var quantityPrefixes = map[string]bool{
	"qty": true, "quantity": true, "q": true, "qt": true,
}

var (
	bareNumberPattern = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	comboPattern      = regexp.MustCompile(`^([a-z]+)?(\d+(?:\.\d+)?)([a-z]+)?$`)
	multSuffixPattern = regexp.MustCompile(`^\d+(?:\.\d+)?x$`)
	multPrefixPattern = regexp.MustCompile(`^x\d+(?:\.\d+)?$`)
)

type quantityCandidate struct {
	weight int
	value  float64
	label  string
}

// fillQuantity inspects the matched tokens for a quantity component and
// records the strongest reading on the outcome. QuantityTokens is set when
// the span carried anything beyond the base tokens, parsed or not.
func (e *Engine) fillQuantity(out *Outcome, matched, base []string) {
	hit := extractQuantity(matched, base)
	out.Quantity = hit
	out.QuantityTokens = hit != nil || len(matched) > len(base)
}

// extractQuantity weighs the quantity patterns found after the base tokens:
// a unit-suffixed number beats a multiplicative form, which beats a
// prefix-indicated number, which beats a bare number.
func extractQuantity(matched, base []string) *QuantityHit {
	if len(matched) == 0 {
		return nil
	}

	prefixLen := 0
	for _, tok := range base {
		if prefixLen < len(matched) && matched[prefixLen] == tok {
			prefixLen++
		} else {
			break
		}
	}
	tokens := matched[prefixLen:]
	if len(tokens) == 0 {
		return nil
	}

	var candidates []quantityCandidate
	seen := make(map[string]bool)
	add := func(value float64, unit string, weight int) {
		label := formatQuantity(value)
		if unit != "" {
			label = label + " " + unit
		}
		key := fmt.Sprintf("%g|%s", value, unit)
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, quantityCandidate{
			weight: weight, value: value, label: label,
		})
	}

	for idx, tok := range tokens {
		if tok == "" {
			continue
		}

		if m := comboPattern.FindStringSubmatch(tok); m != nil && (m[1] != "" || m[3] != "") {
			prefix, number, suffix := m[1], m[2], m[3]
			value, err := strconv.ParseFloat(number, 64)
			if err != nil {
				continue
			}
			weight := 0
			unit := ""
			if u, ok := quantityUnits[suffix]; suffix != "" && ok {
				unit = u
				weight += 4
			} else if suffix == "x" {
				unit = "PCS"
				weight += 3
			}
			if u, ok := quantityUnits[prefix]; prefix != "" && ok && unit == "" {
				unit = u
				weight += 3
			} else if prefix != "" && quantityPrefixes[prefix] {
				weight += 2
			} else if prefix == "x" && unit == "" {
				unit = "PCS"
				weight += 3
			}
			if unit != "" || weight > 0 {
				if weight < 1 {
					weight = 1
				}
				add(value, unit, weight)
				continue
			}
		}

		if bareNumberPattern.MatchString(tok) {
			value, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				continue
			}
			unit := ""
			weight := 1
			if idx+1 < len(tokens) {
				next := tokens[idx+1]
				if u, ok := quantityUnits[next]; ok {
					unit = u
					weight = 4
				} else if next == "x" {
					unit = "PCS"
					weight = 3
				}
			}
			if unit == "" && idx > 0 {
				prev := tokens[idx-1]
				if u, ok := quantityUnits[prev]; ok {
					unit = u
					weight = 3
				} else if quantityPrefixes[prev] && weight < 2 {
					weight = 2
				}
			}
			if unit == "" && len(tokens) == 1 && weight < 2 {
				weight = 2
			}
			add(value, unit, weight)
			continue
		}

		if _, isUnit := quantityUnits[tok]; isUnit || quantityPrefixes[tok] || tok == "x" {
			for _, direction := range []int{1, -1} {
				j := idx + direction
				if j < 0 || j >= len(tokens) || !bareNumberPattern.MatchString(tokens[j]) {
					continue
				}
				value, err := strconv.ParseFloat(tokens[j], 64)
				if err != nil {
					break
				}
				if u, ok := quantityUnits[tok]; ok {
					add(value, u, 4)
				} else if tok == "x" {
					add(value, "PCS", 3)
				} else {
					add(value, "", 2)
				}
				break
			}
		}

		if multSuffixPattern.MatchString(tok) {
			if value, err := strconv.ParseFloat(tok[:len(tok)-1], 64); err == nil {
				add(value, "PCS", 3)
			}
			continue
		}
		if multPrefixPattern.MatchString(tok) {
			if value, err := strconv.ParseFloat(tok[1:], 64); err == nil {
				add(value, "PCS", 3)
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].weight > candidates[j].weight
	})
	best := candidates[0]
	return &QuantityHit{Value: best.value, Label: best.label}
}

// formatQuantity renders a quantity number without a spurious fraction.
func formatQuantity(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-6 {
		return strconv.Itoa(int(math.Round(v)))
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
