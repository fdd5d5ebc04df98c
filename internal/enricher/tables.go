package enricher

import (
	"math"
	"unicode"

	"github.com/joseph-ayodele/ocr-service/internal/model"
)

// detectTables scans each paragraph for a table-shaped line grid:
// at least 2 lines with near-uniform vertical spacing, and word
// x-starts clustering into 2+ columns.
func detectTables(paragraphs []model.Paragraph) []model.Table {
	var tables []model.Table
	for _, p := range paragraphs {
		if len(p.Lines) < 2 {
			continue
		}
		spacings := lineSpacings(p.Lines)
		if len(spacings) == 0 || !uniformSpacing(spacings) {
			continue
		}
		clusters := xClusters(p.Lines)
		if len(clusters) < 2 {
			continue
		}
		cells := make([][]string, len(p.Lines))
		for i, line := range p.Lines {
			row := make([]string, len(clusters))
			for _, w := range line.Words {
				col := nearestCluster(clusters, (w.BBox.X0+w.BBox.X1)/2)
				if row[col] != "" {
					row[col] += " "
				}
				row[col] += w.Text
			}
			cells[i] = row
		}
		tables = append(tables, model.Table{
			Rows: len(p.Lines), Cols: len(clusters), Cells: cells,
			HasHeader: isHeaderRow(cells),
		})
	}
	return tables
}

func lineSpacings(lines []model.Line) []float64 {
	var spacings []float64
	for i := 1; i < len(lines); i++ {
		spacings = append(spacings, lines[i].BBox.Y0-lines[i-1].BBox.Y0)
	}
	return spacings
}

// uniformSpacing checks the mean-absolute-deviation of spacings is
// under 30% of the mean.
func uniformSpacing(spacings []float64) bool {
	if len(spacings) == 0 {
		return false
	}
	var sum float64
	for _, s := range spacings {
		sum += s
	}
	mean := sum / float64(len(spacings))
	if mean <= 0 {
		return false
	}
	var madSum float64
	for _, s := range spacings {
		madSum += math.Abs(s - mean)
	}
	mad := madSum / float64(len(spacings))
	return mad < 0.30*mean
}

// xClusters rounds each word's x-start to the nearest 10px and returns
// the distinct cluster centroids, sorted ascending.
func xClusters(lines []model.Line) []float64 {
	seen := map[float64]bool{}
	var clusters []float64
	for _, line := range lines {
		for _, w := range line.Words {
			c := math.Round(w.BBox.X0/10) * 10
			if !seen[c] {
				seen[c] = true
				clusters = append(clusters, c)
			}
		}
	}
	// sort ascending (small slice, simple insertion sort)
	for i := 1; i < len(clusters); i++ {
		for j := i; j > 0 && clusters[j-1] > clusters[j]; j-- {
			clusters[j-1], clusters[j] = clusters[j], clusters[j-1]
		}
	}
	return clusters
}

func nearestCluster(clusters []float64, x float64) int {
	best, bestDist := 0, math.MaxFloat64
	for i, c := range clusters {
		d := math.Abs(x - c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// isHeaderRow: the first row's cells are a header iff every cell is
// all-caps or shorter than 20 chars.
func isHeaderRow(cells [][]string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells[0] {
		if cell == "" {
			continue
		}
		if len(cell) < 20 {
			continue
		}
		if !isAllCaps(cell) {
			return false
		}
	}
	return true
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
