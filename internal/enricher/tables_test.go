package enricher

import (
	"testing"

	"github.com/joseph-ayodele/ocr-service/internal/model"
)

// gridParagraph builds a paragraph whose lines are evenly spaced rows
// with words starting at the given column x positions.
func gridParagraph(cols []float64, rows [][]string) model.Paragraph {
	p := model.Paragraph{}
	y := 100.0
	for _, row := range rows {
		line := model.Line{}
		for c, cell := range row {
			if cell == "" {
				continue
			}
			x := cols[c]
			w := float64(len(cell)) * 6
			line.Words = append(line.Words, model.Word{
				Text: cell, BBox: bbox(x, y, x+w, y+12),
			})
		}
		if len(line.Words) > 0 {
			first := line.Words[0].BBox
			last := line.Words[len(line.Words)-1].BBox
			line.BBox = bbox(first.X0, y, last.X1, y+12)
		}
		p.Lines = append(p.Lines, line)
		y += 20
	}
	if len(p.Lines) > 0 {
		p.BBox = bbox(cols[0], 100, 500, y)
	}
	return p
}

func TestDetectTables_FindsAlignedGrid(t *testing.T) {
	p := gridParagraph([]float64{50, 200, 350}, [][]string{
		{"ITEM", "QTY", "PRICE"},
		{"Widget", "2", "10.00"},
		{"Gadget", "1", "25.00"},
	})
	tables := detectTables([]model.Paragraph{p})
	if len(tables) != 1 {
		t.Fatalf("expected one table, got %d", len(tables))
	}
	tbl := tables[0]
	if tbl.Rows != 3 || tbl.Cols != 3 {
		t.Fatalf("expected 3x3, got %dx%d", tbl.Rows, tbl.Cols)
	}
	if !tbl.HasHeader {
		t.Fatalf("an all-caps short first row is a header")
	}
	if tbl.Cells[1][0] != "Widget" || tbl.Cells[2][2] != "25.00" {
		t.Fatalf("unexpected cells %+v", tbl.Cells)
	}
}

func TestDetectTables_SkipsSingleLine(t *testing.T) {
	p := gridParagraph([]float64{50, 200}, [][]string{{"only", "row"}})
	if tables := detectTables([]model.Paragraph{p}); len(tables) != 0 {
		t.Fatalf("one line is never a table, got %+v", tables)
	}
}

func TestDetectTables_SkipsIrregularSpacing(t *testing.T) {
	p := gridParagraph([]float64{50, 200}, [][]string{
		{"a", "b"},
		{"c", "d"},
		{"e", "f"},
	})
	// Stretch the last row far away so the spacing deviation exceeds
	// 30% of the mean.
	p.Lines[2].BBox.Y0 += 180
	for i := range p.Lines[2].Words {
		p.Lines[2].Words[i].BBox.Y0 += 180
	}
	if tables := detectTables([]model.Paragraph{p}); len(tables) != 0 {
		t.Fatalf("irregular line spacing must not be a table, got %+v", tables)
	}
}

func TestDetectTables_RequiresTwoColumns(t *testing.T) {
	p := gridParagraph([]float64{50}, [][]string{
		{"alpha"},
		{"beta"},
		{"gamma"},
	})
	if tables := detectTables([]model.Paragraph{p}); len(tables) != 0 {
		t.Fatalf("a single x-cluster is not a table, got %+v", tables)
	}
}
