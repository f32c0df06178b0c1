package lookup

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/fusiengineers/drawcheck/model"
)

const (
	// lineTolerance groups words into lines by rounded top coordinate.
	lineTolerance = 2.0
	// ownNumberEpsilon treats a window value equal to a description number
	// within this tolerance as the label's own dimension.
	ownNumberEpsilon = 1e-6
)

// arrowLikePattern marks a line belonging to a different numbered callout,
// e.g. "3.2 TANK".
var arrowLikePattern = regexp.MustCompile(`\b\d+\.\d+\b\s+[A-Za-z]`)

// geometryLookup searches page words. ok is false when no span matched on
// any page, telling the caller to fall back to text search.
func (e *Engine) geometryLookup(ps *PageSet, q Query) (Outcome, bool) {
	if !ps.HasWords() || len(q.Variants) == 0 {
		return Outcome{}, false
	}

	pages := ps.candidatePages(q.Variants)
	if len(pages) == 0 {
		pages = make([]int, len(ps.words))
		for i := range ps.words {
			pages[i] = i + 1
		}
	}

	for _, page := range pages {
		if page-1 >= len(ps.words) {
			continue
		}
		words := ps.words[page-1]
		tokens := ps.wordTokens[page-1]

		var matched []string
		var span model.Rect
		found := false
		for _, variant := range q.Variants {
			box, ok := matchSpan(variant, words, tokens)
			if !ok {
				continue
			}
			if ps.inTableArea(page, box) {
				continue
			}
			matched = variant
			span = box
			found = true
			break
		}
		if !found {
			continue
		}

		candidates := e.scanWindow(words, span, q.OwnNumbers, matched)
		values := make([]float64, len(candidates))
		for i, c := range candidates {
			values[i] = c.Value
		}
		value, selection := e.pickCandidate(values, q.Expected, q.PreferMax)

		out := Outcome{
			CalloutFound:  true,
			Page:          page,
			Method:        "geometry",
			Selection:     selection,
			Candidates:    values,
			CalloutBox:    &span,
			MatchedTokens: matched,
		}
		if selection != "none" {
			out.Found = true
			out.Value = value
			for _, c := range candidates {
				if c.Value == value {
					box := c.Box
					out.ValueBox = &box
					break
				}
			}
		}
		e.fillQuantity(&out, matched, q.BaseTokens)
		return out, true
	}
	return Outcome{}, false
}

// matchSpan finds the first word run whose normalized tokens equal the
// variant exactly and returns its covering box. Words that normalize to
// nothing are skipped before matching.
func matchSpan(variant []string, words []model.Word, tokens []string) (model.Rect, bool) {
	type entry struct {
		box model.Rect
		tok string
	}
	entries := make([]entry, 0, len(words))
	for i, w := range words {
		if tokens[i] != "" {
			entries = append(entries, entry{box: w.Box, tok: tokens[i]})
		}
	}
	needed := len(variant)
	if needed == 0 {
		return model.Rect{}, false
	}
	for i := 0; i+needed <= len(entries); i++ {
		ok := true
		for j, tok := range variant {
			if entries[i+j].tok != tok {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		span := entries[i].box
		for j := 1; j < needed; j++ {
			span = span.Union(entries[i+j].box)
		}
		return span, true
	}
	return model.Rect{}, false
}

// lineGroup is one visual line of words during the upward scan.
type lineGroup struct {
	words  []model.Word
	top    float64
	bottom float64
}

// scanWindow walks upward from the span until the nearest barrier line,
// collecting numeric candidates horizontally near the callout. Candidates
// come back ordered by value descending, equal values resolved by the
// configured tie-break, then deduplicated by value keeping the best box.
func (e *Engine) scanWindow(words []model.Word, span model.Rect, ownNumbers []float64, matched []string) []Candidate {
	if len(words) == 0 {
		return nil
	}

	xMargin := math.Max(20.0, span.Width()*0.6)
	windowX0 := span.X0 - xMargin
	windowX1 := span.X1 + xMargin
	center := span.CenterX()

	groups := make(map[int]*lineGroup)
	for _, w := range words {
		if w.Box.Bottom >= span.Top-1.0 {
			continue
		}
		key := int(math.Round(w.Box.Top / lineTolerance))
		g, ok := groups[key]
		if !ok {
			g = &lineGroup{top: w.Box.Top, bottom: w.Box.Bottom}
			groups[key] = g
		}
		g.words = append(g.words, w)
		g.top = math.Min(g.top, w.Box.Top)
		g.bottom = math.Max(g.bottom, w.Box.Bottom)
	}
	if len(groups) == 0 {
		return nil
	}

	var tagPattern *regexp.Regexp
	if len(matched) > 0 {
		tagPattern = regexp.MustCompile(`\(\s*` + regexp.QuoteMeta(matched[0]) + `(?:\s+[A-Za-z0-9._-]+)+\s*\)`)
	}

	lines := make([]*lineGroup, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, g)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].bottom > lines[j].bottom
	})

	barrierBottom := math.Inf(-1)
	hasBarrier := false
	var collected []model.Word
	for _, g := range lines {
		sort.Slice(g.words, func(i, j int) bool {
			return g.words[i].Box.X0 < g.words[j].Box.X0
		})
		var texts []string
		for _, w := range g.words {
			texts = append(texts, w.Text)
		}
		lineText := strings.Join(texts, " ")

		if arrowLikePattern.MatchString(lineText) ||
			(tagPattern != nil && tagPattern.MatchString(lineText)) {
			barrierBottom = g.bottom
			hasBarrier = true
			break
		}

		for _, w := range g.words {
			c := w.Box.CenterX()
			if windowX0 <= c && c <= windowX1 {
				collected = append(collected, w)
			}
		}
	}

	if hasBarrier {
		kept := collected[:0]
		for _, w := range collected {
			if w.Box.Bottom >= barrierBottom-0.5 {
				kept = append(kept, w)
			}
		}
		collected = kept
	}

	var candidates []Candidate
	seen := make(map[float64]bool)
	for _, w := range collected {
		values := numericFromText(w.Text)
		if len(values) == 0 {
			continue
		}
		offset := math.Abs(w.Box.CenterX() - center)
		for _, v := range values {
			if isOwnNumber(v, ownNumbers) || seen[v] {
				continue
			}
			seen[v] = true
			candidates = append(candidates, Candidate{Value: v, Box: w.Box, Offset: offset})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Value != candidates[j].Value {
			return candidates[i].Value > candidates[j].Value
		}
		return e.config.TieBreak(candidates[i], candidates[j])
	})
	return candidates
}

func isOwnNumber(v float64, ownNumbers []float64) bool {
	for _, dn := range ownNumbers {
		if math.Abs(v-dn) <= ownNumberEpsilon {
			return true
		}
	}
	return false
}
