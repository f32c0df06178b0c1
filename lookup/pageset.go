package lookup

import (
	"strings"

	"github.com/fusiengineers/drawcheck/match"
	"github.com/fusiengineers/drawcheck/model"
	"github.com/fusiengineers/drawcheck/tables"
)

// tableMargin expands table regions when testing whether a span sits inside
// a BOM table, absorbing cell padding.
const tableMargin = 3.0

// PageSet is the per-invocation cache of everything the engine derives from
// a document: scrubbed page texts and words, their normalized tokens, and
// the table regions excluded from callout search. Build one per run with
// [NewPageSet]; it is read-only afterwards.
type PageSet struct {
	texts []string
	words [][]model.Word

	wordTokens [][]string   // normalized token per word, parallel to words
	pageTokens [][]string   // tokens of the full page text
	pageLines  [][]string   // raw lines of the page text
	lineTokens [][][]string // tokens per line

	tableRegions map[int][]model.Rect
}

// NewPageSet derives the searchable view of a document. Table content is
// scrubbed first so BOM rows cannot masquerade as drawing callouts: text
// lines containing a row snippet are dropped, and word runs matching a
// snippet inside a table region are removed.
func NewPageSet(doc *model.Document, snippets []tables.Snippet) *PageSet {
	ps := &PageSet{
		texts:        scrubTexts(doc.PageTexts, snippets),
		tableRegions: make(map[int][]model.Rect),
	}
	for _, table := range doc.Tables {
		for _, region := range table.Regions {
			ps.tableRegions[table.Page] = append(ps.tableRegions[table.Page], region.Expand(tableMargin))
		}
	}

	ps.words = make([][]model.Word, len(doc.PageWords))
	for i, pageWords := range doc.PageWords {
		ps.words[i] = scrubWords(pageWords, snippetPatterns(snippets, i+1), ps.tableRegions[i+1])
	}

	ps.wordTokens = make([][]string, len(ps.words))
	for i, pageWords := range ps.words {
		toks := make([]string, len(pageWords))
		for j, w := range pageWords {
			toks[j] = match.NormalizeToken(w.Text)
		}
		ps.wordTokens[i] = toks
	}

	ps.pageTokens = make([][]string, len(ps.texts))
	ps.pageLines = make([][]string, len(ps.texts))
	ps.lineTokens = make([][][]string, len(ps.texts))
	for i, text := range ps.texts {
		ps.pageTokens[i] = tokenizeText(text)
		lines := strings.Split(text, "\n")
		ps.pageLines[i] = lines
		lineToks := make([][]string, len(lines))
		for j, line := range lines {
			lineToks[j] = tokenizeText(line)
		}
		ps.lineTokens[i] = lineToks
	}

	return ps
}

// PageCount returns the number of text pages.
func (ps *PageSet) PageCount() int {
	return len(ps.texts)
}

// HasWords reports whether any page carries word-level geometry.
func (ps *PageSet) HasWords() bool {
	for _, w := range ps.words {
		if len(w) > 0 {
			return true
		}
	}
	return false
}

// inTableArea reports whether the box overlaps any table region on the page.
func (ps *PageSet) inTableArea(page int, box model.Rect) bool {
	for _, region := range ps.tableRegions[page] {
		if box.Intersects(region) {
			return true
		}
	}
	return false
}

// tokenizeText splits running text on whitespace and parentheses before
// normalizing, so "(3 BRACKET)" tokenizes like the words it annotates.
func tokenizeText(text string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '(' || r == ')' || r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
	}) {
		if tok := match.NormalizeToken(part); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// scrubTexts drops text lines containing any table-row snippet.
func scrubTexts(pageTexts []string, snippets []tables.Snippet) []string {
	byPage := make(map[int][]string)
	for _, s := range snippets {
		if s.Text != "" {
			byPage[s.Page] = append(byPage[s.Page], strings.ToLower(s.Text))
		}
	}
	cleaned := make([]string, len(pageTexts))
	for i, text := range pageTexts {
		lowers := byPage[i+1]
		if len(lowers) == 0 {
			cleaned[i] = text
			continue
		}
		var kept []string
		for _, line := range strings.Split(text, "\n") {
			lower := strings.ToLower(line)
			drop := false
			for _, snippet := range lowers {
				if strings.Contains(lower, snippet) {
					drop = true
					break
				}
			}
			if !drop {
				kept = append(kept, line)
			}
		}
		cleaned[i] = strings.Join(kept, "\n")
	}
	return cleaned
}

// snippetPatterns returns the normalized token sequences of the page's
// snippets.
func snippetPatterns(snippets []tables.Snippet, page int) [][]string {
	var patterns [][]string
	for _, s := range snippets {
		if s.Page != page {
			continue
		}
		if toks := match.Tokenize(s.Text); len(toks) > 0 {
			patterns = append(patterns, toks)
		}
	}
	return patterns
}

// scrubWords removes word runs that match a snippet pattern and sit inside a
// table region. Words outside every region always survive, so a callout that
// happens to repeat row wording is not lost.
func scrubWords(words []model.Word, patterns [][]string, regions []model.Rect) []model.Word {
	if len(words) == 0 || len(patterns) == 0 || len(regions) == 0 {
		out := make([]model.Word, len(words))
		copy(out, words)
		return out
	}
	norms := make([]string, len(words))
	for i, w := range words {
		norms[i] = match.NormalizeToken(w.Text)
	}
	remove := make(map[int]bool)
	for _, pattern := range patterns {
		plen := len(pattern)
		for i := 0; i+plen <= len(norms); i++ {
			ok := true
			for j := 0; j < plen; j++ {
				if norms[i+j] == "" || norms[i+j] != pattern[j] {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			span := words[i].Box
			for j := 1; j < plen; j++ {
				span = span.Union(words[i+j].Box)
			}
			inTable := false
			for _, region := range regions {
				if span.Intersects(region) {
					inTable = true
					break
				}
			}
			if !inTable {
				continue
			}
			for j := 0; j < plen; j++ {
				remove[i+j] = true
			}
		}
	}
	out := make([]model.Word, 0, len(words))
	for i, w := range words {
		if !remove[i] {
			out = append(out, w)
		}
	}
	return out
}
