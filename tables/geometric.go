package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/fusiengineers/drawcheck/model"
)

// DetectorConfig controls geometric table detection.
type DetectorConfig struct {
	// MinRows is the minimum number of text rows for a valid table.
	MinRows int

	// MinCols is the minimum number of word columns for a valid table.
	MinCols int

	// MinConfidence is the acceptance threshold (0-1) for the composite
	// alignment/regularity score.
	MinConfidence float64

	// MinOccupancy is the minimum fraction of grid cells that must hold
	// text. Scattered drawing callouts share column positions only
	// sparsely; table rows fill most cells.
	MinOccupancy float64

	// AlignmentTolerance is the clustering tolerance in points for row
	// baselines and column left edges.
	AlignmentTolerance float64

	// ClusterGap is the vertical gap in points beyond which words belong
	// to separate candidate regions.
	ClusterGap float64
}

// DefaultDetectorConfig returns thresholds tuned for BOM tables on
// fabrication drawings.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MinRows:            2,
		MinCols:            3,
		MinConfidence:      0.5,
		MinOccupancy:       0.6,
		AlignmentTolerance: 3.0,
		ClusterGap:         50.0,
	}
}

// GeometricDetector finds table grids on a page from word positions alone.
// It clusters words by vertical proximity, then checks each cluster for
// column alignment and row regularity. Text extractors for drawings rarely
// expose ruling lines, so detection relies entirely on word geometry.
type GeometricDetector struct {
	config DetectorConfig
}

// NewGeometricDetector creates a detector with the default configuration.
func NewGeometricDetector() *GeometricDetector {
	return &GeometricDetector{config: DefaultDetectorConfig()}
}

// NewGeometricDetectorWithConfig creates a detector with a custom
// configuration.
func NewGeometricDetectorWithConfig(config DetectorConfig) *GeometricDetector {
	d := NewGeometricDetector()
	if config.MinRows > 0 {
		d.config.MinRows = config.MinRows
	}
	if config.MinCols > 0 {
		d.config.MinCols = config.MinCols
	}
	if config.MinConfidence > 0 {
		d.config.MinConfidence = config.MinConfidence
	}
	if config.MinOccupancy > 0 {
		d.config.MinOccupancy = config.MinOccupancy
	}
	if config.AlignmentTolerance > 0 {
		d.config.AlignmentTolerance = config.AlignmentTolerance
	}
	if config.ClusterGap > 0 {
		d.config.ClusterGap = config.ClusterGap
	}
	return d
}

// Detect finds table grids among the page's words and returns them as raw
// tables. Each table carries the region its words occupy so callers can keep
// table content out of the callout search.
func (d *GeometricDetector) Detect(page int, words []model.Word) []model.RawTable {
	if len(words) == 0 {
		return nil
	}

	var tables []model.RawTable
	for _, cluster := range d.clusterWords(words) {
		if table, ok := d.detectInCluster(cluster); ok {
			table.Page = page
			tables = append(tables, table)
		}
	}
	return tables
}

// clusterWords groups words that are vertically close. Words separated by
// more than ClusterGap start a new cluster, so a table block and a distant
// drawing callout never share a candidate region.
func (d *GeometricDetector) clusterWords(words []model.Word) [][]model.Word {
	sorted := make([]model.Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Box.Top < sorted[j].Box.Top
	})

	var clusters [][]model.Word
	current := []model.Word{sorted[0]}
	maxBottom := sorted[0].Box.Bottom

	for _, w := range sorted[1:] {
		if w.Box.Top-maxBottom > d.config.ClusterGap {
			clusters = append(clusters, current)
			current = nil
			maxBottom = w.Box.Bottom
		}
		current = append(current, w)
		if w.Box.Bottom > maxBottom {
			maxBottom = w.Box.Bottom
		}
	}
	return append(clusters, current)
}

// detectInCluster checks one cluster for tabular structure and, when it
// qualifies, assembles the cell grid.
func (d *GeometricDetector) detectInCluster(words []model.Word) (model.RawTable, bool) {
	if len(words) < d.config.MinRows*d.config.MinCols {
		return model.RawTable{}, false
	}

	rows := d.groupRows(words)
	if len(rows) < d.config.MinRows {
		return model.RawTable{}, false
	}
	cols := d.columnCenters(words)
	if len(cols) < d.config.MinCols {
		return model.RawTable{}, false
	}

	cells, occupied := d.assignCells(rows, cols)
	occupancy := float64(occupied) / float64(len(rows)*len(cols))
	if occupancy < d.config.MinOccupancy {
		return model.RawTable{}, false
	}
	if d.confidence(words, rows, cols, occupancy) < d.config.MinConfidence {
		return model.RawTable{}, false
	}

	region := words[0].Box
	for _, w := range words[1:] {
		region = region.Union(w.Box)
	}
	return model.RawTable{
		Cells:   cells,
		Regions: []model.Rect{region},
	}, true
}

// groupRows splits a cluster into visual rows by baseline proximity. Words
// arrive sorted top to bottom; rows come out in reading order.
func (d *GeometricDetector) groupRows(words []model.Word) [][]model.Word {
	sorted := make([]model.Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Box.Bottom < sorted[j].Box.Bottom
	})

	var rows [][]model.Word
	current := []model.Word{sorted[0]}
	baseline := sorted[0].Box.Bottom

	for _, w := range sorted[1:] {
		if w.Box.Bottom-baseline > d.config.AlignmentTolerance {
			rows = append(rows, current)
			current = nil
		}
		current = append(current, w)
		baseline = w.Box.Bottom
	}
	return append(rows, current)
}

// columnCenters clusters word left edges into column positions, averaging
// the members of each cluster.
func (d *GeometricDetector) columnCenters(words []model.Word) []float64 {
	lefts := make([]float64, len(words))
	for i, w := range words {
		lefts[i] = w.Box.X0
	}
	sort.Float64s(lefts)

	centers := []float64{lefts[0]}
	count := 1
	for _, x := range lefts[1:] {
		if x-centers[len(centers)-1] > d.config.AlignmentTolerance {
			centers = append(centers, x)
			count = 1
			continue
		}
		last := len(centers) - 1
		centers[last] = (centers[last]*float64(count) + x) / float64(count+1)
		count++
	}
	return centers
}

// assignCells places each word into the cell under the nearest column
// center. Words sharing a cell are joined left to right.
func (d *GeometricDetector) assignCells(rows [][]model.Word, cols []float64) (cells [][]string, occupied int) {
	cells = make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		sort.Slice(row, func(i, j int) bool {
			return row[i].Box.X0 < row[j].Box.X0
		})
		for _, w := range row {
			c := nearestColumn(w.Box.X0, cols)
			if cells[r][c] == "" {
				occupied++
			} else {
				cells[r][c] += " "
			}
			cells[r][c] += strings.TrimSpace(w.Text)
		}
	}
	return cells, occupied
}

func nearestColumn(x float64, cols []float64) int {
	best := 0
	for i, c := range cols {
		if math.Abs(x-c) < math.Abs(x-cols[best]) {
			best = i
		}
	}
	return best
}

// confidence scores the cluster on column alignment, row-spacing regularity,
// and cell occupancy. Equal row heights and tightly aligned left edges are
// the signature of a drawn table.
func (d *GeometricDetector) confidence(words []model.Word, rows [][]model.Word, cols []float64, occupancy float64) float64 {
	aligned := 0
	for _, w := range words {
		c := nearestColumn(w.Box.X0, cols)
		if math.Abs(w.Box.X0-cols[c]) <= d.config.AlignmentTolerance {
			aligned++
		}
	}
	alignment := float64(aligned) / float64(len(words))

	regularity := 1.0
	if len(rows) > 2 {
		spacings := make([]float64, 0, len(rows)-1)
		for i := 1; i < len(rows); i++ {
			spacings = append(spacings, rows[i][0].Box.Bottom-rows[i-1][0].Box.Bottom)
		}
		if m := mean(spacings); m > 0 {
			cv := math.Sqrt(variance(spacings)) / m
			regularity = math.Max(0, 1-cv)
		}
	}

	return 0.3*alignment + 0.3*regularity + 0.4*occupancy
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		diff := v - m
		sum += diff * diff
	}
	return sum / float64(len(values))
}
