package tables

import (
	"strconv"
	"strings"

	"github.com/fusiengineers/drawcheck/model"
)

// linesMode scans page texts for rows when no grid table produced any.
// A qualifying line has at least MinLineTokens tokens, a bare position id
// first, and a length last, either a bare number or an mm-suffixed one.
// All line-mode rows share one group regardless of page, so a position id
// repeated anywhere in the document is flagged as a duplicate.
func (n *Normalizer) linesMode(doc *model.Document) []model.Item {
	var items []model.Item
	seen := make(map[string]bool)
	for page := 1; page <= doc.PageCount(); page++ {
		for _, line := range strings.Split(doc.TextForPage(page), "\n") {
			item, ok := n.parseLine(line)
			if !ok {
				continue
			}
			item.TableGroup = "lines"
			item.TableLabel = "Table 1"
			item.TablePage = page
			if key := dedupKey(item); seen[key] {
				continue
			} else {
				seen[key] = true
			}
			items = append(items, item)
		}
	}
	return items
}

func (n *Normalizer) parseLine(line string) (model.Item, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < n.config.MinLineTokens {
		return model.Item{}, false
	}
	pos := tokens[0]
	if !posPattern.MatchString(pos) {
		return model.Item{}, false
	}

	last := strings.ToLower(tokens[len(tokens)-1])
	var lengthRaw, lengthDisplay string
	var descTokens []string
	switch {
	case last == "mm" && len(tokens) >= 3:
		lengthRaw = tokens[len(tokens)-2]
		descTokens = tokens[1 : len(tokens)-2]
		lengthDisplay = lengthRaw + " mm"
	case strings.HasSuffix(last, "mm"):
		lengthRaw = tokens[len(tokens)-1][:len(tokens[len(tokens)-1])-2]
		descTokens = tokens[1 : len(tokens)-1]
		lengthDisplay = tokens[len(tokens)-1]
	case numberPattern.MatchString(last) && nonNumeric.ReplaceAllString(last, "") == last:
		lengthRaw = tokens[len(tokens)-1]
		descTokens = tokens[1 : len(tokens)-1]
		lengthDisplay = lengthRaw + " mm"
	default:
		return model.Item{}, false
	}

	description := strings.TrimSpace(strings.Join(descTokens, " "))
	if description == "" {
		return model.Item{}, false
	}

	cleaned := strings.ReplaceAll(strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, lengthRaw), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if cleaned == "" || err != nil {
		return model.Item{}, false
	}

	return model.Item{
		PositionID:    pos,
		Description:   description,
		LengthOptions: []float64{v},
		LengthDisplay: lengthDisplay,
		MeasureKind:   model.MeasureLength,
	}, true
}
