package lookup

import "github.com/fusiengineers/drawcheck/model"

// Candidate is one numeric value found during search, paired with its
// location and its horizontal offset from the callout center.
type Candidate struct {
	Value  float64
	Box    model.Rect
	Offset float64
}

// Config tunes the engine. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// Tolerance is the numeric match tolerance in mm.
	Tolerance float64

	// TieBreak orders candidates of equal value. It reports whether a
	// should be preferred over b. The default prefers the smaller
	// horizontal offset from the callout center.
	TieBreak func(a, b Candidate) bool
}

// DefaultConfig returns the engine defaults: 0.5 mm tolerance and
// horizontal-proximity tie-breaking.
func DefaultConfig() Config {
	return Config{
		Tolerance: 0.5,
		TieBreak: func(a, b Candidate) bool {
			return a.Offset < b.Offset
		},
	}
}

// Engine resolves callouts and values against a PageSet. Stateless; one
// engine may serve concurrent queries.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultConfig())
}

// NewEngineWithConfig creates an engine with a custom configuration.
func NewEngineWithConfig(config Config) *Engine {
	if config.Tolerance <= 0 {
		config.Tolerance = 0.5
	}
	if config.TieBreak == nil {
		config.TieBreak = DefaultConfig().TieBreak
	}
	return &Engine{config: config}
}

// Query describes one value search.
type Query struct {
	// Variants are the token-sequence hypotheses, most specific first.
	Variants [][]string

	// BaseTokens is the position-id-plus-description sequence; matched
	// tokens beyond it are inspected for a quantity.
	BaseTokens []string

	// OwnNumbers are numeric values embedded in the item's own
	// description, excluded from candidacy so the label's own dimension
	// is never read back as the drawing value.
	OwnNumbers []float64

	// Expected is the table-declared value, nil when none.
	Expected *float64

	// PreferMax selects the length rule (largest value unless one matches
	// Expected within tolerance). False selects the thickness rule
	// (closest to Expected).
	PreferMax bool
}

// QuantityHit is a quantity recovered from the matched callout tokens.
type QuantityHit struct {
	Value float64
	Label string
}

// Outcome is the structured result of one search. CalloutFound without
// Found means the callout text exists but no numeric candidate survived,
// a distinct condition from the callout being absent entirely.
type Outcome struct {
	CalloutFound bool
	Found        bool
	Value        float64
	Page         int
	Method       string // "geometry" or "text"
	Selection    string // "match_expected", "max_in_window", "closest_to_expected", "none"
	Candidates   []float64

	CalloutBox *model.Rect
	ValueBox   *model.Rect

	MatchedTokens []string

	// QuantityTokens reports that the matched span carried tokens beyond
	// the base sequence, whether or not they parsed as a quantity.
	QuantityTokens bool
	Quantity       *QuantityHit
}

// Find runs the search: geometric first, text fallback when geometry finds
// no span (or no word data exists).
func (e *Engine) Find(ps *PageSet, q Query) Outcome {
	if out, ok := e.geometryLookup(ps, q); ok {
		return out
	}
	return e.textLookup(ps, q)
}

// candidatePages returns pages whose text tokens contain any variant as a
// contiguous subsequence. Empty means no page pre-qualified; the caller then
// searches every page.
func (ps *PageSet) candidatePages(variants [][]string) []int {
	var pages []int
	for i, tokens := range ps.pageTokens {
		for _, variant := range variants {
			if containsSubsequence(tokens, variant) {
				pages = append(pages, i+1)
				break
			}
		}
	}
	return pages
}

func containsSubsequence(tokens, subseq []string) bool {
	if len(subseq) == 0 {
		return false
	}
	for i := 0; i+len(subseq) <= len(tokens); i++ {
		found := true
		for j, tok := range subseq {
			if tokens[i+j] != tok {
				found = false
				break
			}
		}
		if found {
			return true
		}
	}
	return false
}
