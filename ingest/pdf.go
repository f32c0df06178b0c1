package ingest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/fusiengineers/drawcheck/model"
	"github.com/fusiengineers/drawcheck/tables"
)

// fragmentLineTolerance groups text fragments into visual lines by their
// baseline Y coordinate.
const fragmentLineTolerance = 2.0

// wordGapFactor is the horizontal gap, as a fraction of font size, beyond
// which adjacent fragments start a new word.
const wordGapFactor = 0.3

// fragment is one positioned text chunk in top-left page coordinates.
type fragment struct {
	text   string
	x0, x1 float64
	top    float64
	bottom float64
}

// Load reads a text-layer PDF into a Document: per-page plain text, per-page
// words with bounding boxes (top-left coordinates), and the table grids the
// geometric detector finds among those words.
func Load(path string) (*model.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc := &model.Document{}
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			doc.PageTexts = append(doc.PageTexts, "")
			doc.PageWords = append(doc.PageWords, nil)
			continue
		}
		height := pageHeight(page)
		fragments := pageFragments(page, height)
		addPage(doc, pageNum, assembleWords(fragments))
	}
	return doc, nil
}

// addPage appends one page's words, rendered text, and detected table grids
// to the document.
func addPage(doc *model.Document, pageNum int, words []model.Word) {
	doc.PageWords = append(doc.PageWords, words)
	doc.PageTexts = append(doc.PageTexts, renderText(words))
	doc.Tables = append(doc.Tables, tables.NewGeometricDetector().Detect(pageNum, words)...)
}

// pageHeight reads the MediaBox height, falling back to US Letter when the
// box is malformed.
func pageHeight(page pdf.Page) float64 {
	box := page.V.Key("MediaBox")
	if box.Len() == 4 {
		y0 := box.Index(1).Float64()
		y1 := box.Index(3).Float64()
		if y1 > y0 {
			return y1 - y0
		}
	}
	return 792.0
}

// pageFragments converts the page's text chunks from PDF bottom-left
// coordinates into top-left ones.
func pageFragments(page pdf.Page, height float64) []fragment {
	var fragments []fragment
	for _, t := range page.Content().Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = 10
		}
		fragments = append(fragments, fragment{
			text:   t.S,
			x0:     t.X,
			x1:     t.X + t.W,
			top:    height - t.Y - size,
			bottom: height - t.Y,
		})
	}
	return fragments
}

// assembleWords groups fragments into visual lines, sorts each line left to
// right, and merges adjacent fragments into words wherever the horizontal
// gap is small. The extractor often reports single characters; this rebuilds
// the words the drawing actually shows.
func assembleWords(fragments []fragment) []model.Word {
	if len(fragments) == 0 {
		return nil
	}

	lines := make(map[int][]fragment)
	for _, f := range fragments {
		key := int(f.bottom / fragmentLineTolerance)
		lines[key] = append(lines[key], f)
	}

	keys := make([]int, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var words []model.Word
	for _, k := range keys {
		line := lines[k]
		sort.Slice(line, func(i, j int) bool {
			return line[i].x0 < line[j].x0
		})

		current := line[0]
		var text strings.Builder
		text.WriteString(current.text)
		flush := func(f fragment) {
			words = append(words, model.Word{
				Text: text.String(),
				Box:  model.Rect{X0: f.x0, X1: f.x1, Top: f.top, Bottom: f.bottom},
			})
		}
		box := model.Rect{X0: current.x0, X1: current.x1, Top: current.top, Bottom: current.bottom}
		for _, f := range line[1:] {
			gap := f.x0 - box.X1
			maxGap := (box.Bottom - box.Top) * wordGapFactor
			if maxGap <= 0 {
				maxGap = 1.0
			}
			if gap <= maxGap {
				text.WriteString(f.text)
				box = box.Union(model.Rect{X0: f.x0, X1: f.x1, Top: f.top, Bottom: f.bottom})
				continue
			}
			flush(fragment{x0: box.X0, x1: box.X1, top: box.Top, bottom: box.Bottom})
			text.Reset()
			text.WriteString(f.text)
			box = model.Rect{X0: f.x0, X1: f.x1, Top: f.top, Bottom: f.bottom}
		}
		flush(fragment{x0: box.X0, x1: box.X1, top: box.Top, bottom: box.Bottom})
	}
	return words
}

// renderText rebuilds the page's plain text from assembled words, one
// visual line per text line, reading top to bottom.
func renderText(words []model.Word) string {
	if len(words) == 0 {
		return ""
	}
	lines := make(map[int][]model.Word)
	for _, w := range words {
		key := int(w.Box.Bottom / fragmentLineTolerance)
		lines[key] = append(lines[key], w)
	}
	keys := make([]int, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var b strings.Builder
	for i, k := range keys {
		line := lines[k]
		sort.Slice(line, func(p, q int) bool {
			return line[p].Box.X0 < line[q].Box.X0
		})
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, w := range line {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.Text)
		}
	}
	return b.String()
}
