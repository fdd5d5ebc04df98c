package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/ocr-service/internal/model"
)

// Config configures the exec-based TesseractEngine.
type Config struct {
	TesseractPath string // default "tesseract"
	TessdataDir   string
	PSM           int // page segmentation mode; 0 = tesseract default
	OEM           int // OCR engine mode; 0 = tesseract default
}

// TesseractEngine implements Engine by shelling out to `tesseract` in
// TSV mode, whose hierarchical level/block_num/par_num/line_num
// columns give exactly the blocks->paragraphs->lines->words shape
// the Result document needs, with a bounding box and confidence on
// every word.
type TesseractEngine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewTesseractEngine(cfg Config, logger *slog.Logger) *TesseractEngine {
	if cfg.TesseractPath == "" {
		cfg.TesseractPath = "tesseract"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractEngine{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Recognize writes image to a temp file and runs tesseract against it.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte, lang string) (BlockTree, error) {
	if lang == "" {
		lang = "eng"
	}
	tmp, err := os.CreateTemp("", "ocr-img-*.bin")
	if err != nil {
		return BlockTree{}, fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return BlockTree{}, fmt.Errorf("write temp image: %w", err)
	}
	tmp.Close()

	return e.recognizeFile(ctx, tmp.Name(), lang)
}

func (e *TesseractEngine) recognizeFile(ctx context.Context, path, lang string) (BlockTree, error) {
	args := []string{path, "stdout", "-l", lang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	args = append(args, "tsv")

	out, errb, err := e.runner.Run(ctx, e.cfg.TesseractPath, args...)
	if err != nil {
		return BlockTree{}, fmt.Errorf("tesseract: %w: %s", err, string(errb))
	}
	tree := parseTSV(string(out), lang)
	tree.Method = "image-ocr"
	return tree, nil
}

// tsvRow mirrors one data row of tesseract's TSV output: level,
// page_num, block_num, par_num, line_num, word_num, left, top, width,
// height, conf, text.
type tsvRow struct {
	level                                        int
	blockNum, parNum, lineNum                    int
	left, top, width, height                     float64
	conf                                         float64
	text                                         string
}

func parseTSV(raw string, lang string) BlockTree {
	lines := strings.Split(raw, "\n")
	var rows []tsvRow
	var pageW, pageH float64

	for i, ln := range lines {
		if i == 0 || strings.TrimSpace(ln) == "" {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		level, _ := strconv.Atoi(cols[0])
		block, _ := strconv.Atoi(cols[2])
		par, _ := strconv.Atoi(cols[3])
		line, _ := strconv.Atoi(cols[4])
		left, _ := strconv.ParseFloat(cols[6], 64)
		top, _ := strconv.ParseFloat(cols[7], 64)
		width, _ := strconv.ParseFloat(cols[8], 64)
		height, _ := strconv.ParseFloat(cols[9], 64)
		conf, _ := strconv.ParseFloat(cols[10], 64)
		text := strings.Join(cols[11:], "\t")

		if level == 1 {
			pageW, pageH = width, height
			continue
		}
		if level != 5 || strings.TrimSpace(text) == "" {
			continue
		}
		rows = append(rows, tsvRow{level: level, blockNum: block, parNum: par, lineNum: line,
			left: left, top: top, width: width, height: height, conf: conf, text: text})
	}

	tree := BlockTree{PageWidth: pageW, PageHeight: pageH, PageCount: 1, Language: lang}
	if len(rows) == 0 {
		return tree // graceful empty-result
	}

	blocks := map[int]*Block{}
	var blockOrder []int
	paras := map[[2]int]*Paragraph{}
	var paraOrder []struct{ block, par int }
	linesMap := map[[3]int]*Line{}
	var lineOrder []struct{ block, par, line int }

	for _, r := range rows {
		word := Word{Text: r.text, Confidence: r.conf, BBox: bboxFrom(r.left, r.top, r.width, r.height)}

		lKey := [3]int{r.blockNum, r.parNum, r.lineNum}
		line, ok := linesMap[lKey]
		if !ok {
			line = &Line{}
			linesMap[lKey] = line
			lineOrder = append(lineOrder, struct{ block, par, line int }{r.blockNum, r.parNum, r.lineNum})
		}
		line.Words = append(line.Words, word)
		line.BBox = unionBBox(line.BBox, word.BBox)

		pKey := [2]int{r.blockNum, r.parNum}
		if _, ok := paras[pKey]; !ok {
			paras[pKey] = &Paragraph{}
			paraOrder = append(paraOrder, struct{ block, par int }{r.blockNum, r.parNum})
		}

		if _, ok := blocks[r.blockNum]; !ok {
			blocks[r.blockNum] = &Block{}
			blockOrder = append(blockOrder, r.blockNum)
		}
	}

	// Assemble lines into paragraphs, in first-seen order.
	for _, key := range lineOrder {
		pKey := [2]int{key.block, key.par}
		p := paras[pKey]
		l := linesMap[[3]int{key.block, key.par, key.line}]
		p.Lines = append(p.Lines, *l)
		p.BBox = unionBBox(p.BBox, l.BBox)
	}
	// Assemble paragraphs into blocks.
	for _, key := range paraOrder {
		b := blocks[key.block]
		p := paras[[2]int{key.block, key.par}]
		b.Paragraphs = append(b.Paragraphs, *p)
		b.BBox = unionBBox(b.BBox, p.BBox)
	}
	for _, bn := range blockOrder {
		tree.Blocks = append(tree.Blocks, *blocks[bn])
	}
	return tree
}

func bboxFrom(x, y, w, h float64) model.BBox {
	return model.BBox{X0: x, Y0: y, X1: x + w, Y1: y + h, Width: w, Height: h}
}

func unionBBox(a, b model.BBox) model.BBox {
	if a.Width == 0 && a.Height == 0 && a.X0 == 0 && a.Y0 == 0 {
		return b
	}
	x0, y0 := min(a.X0, b.X0), min(a.Y0, b.Y0)
	x1, y1 := max(a.X1, b.X1), max(a.Y1, b.Y1)
	return model.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1, Width: x1 - x0, Height: y1 - y0}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
