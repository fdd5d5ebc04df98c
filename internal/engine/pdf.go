package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joseph-ayodele/ocr-service/internal/model"
)

// defaultPageWidth/Height approximate US Letter at 72dpi, used only
// for the text-PDF fast path where no raster dimensions exist.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
	textLineHeight    = 12.0
)

// PDFConfig configures the two PDF recognition paths.
type PDFConfig struct {
	PdftotextPath   string // default "pdftotext"
	PdftoppmPath    string // default "pdftoppm"
	DPI             int    // rasterization DPI, default 300
	PageConcurrency int    // bounded pool size for image-PDF path, default 4
}

// PDFEngine recognizes PDF documents: embedded text is extracted
// with pdftotext when present; otherwise pages are rasterized with
// pdftoppm and fed through the composed TesseractEngine.
type PDFEngine struct {
	cfg    PDFConfig
	runner Runner
	images *TesseractEngine
	logger *slog.Logger
}

func NewPDFEngine(cfg PDFConfig, images *TesseractEngine, logger *slog.Logger) *PDFEngine {
	if cfg.PdftotextPath == "" {
		cfg.PdftotextPath = "pdftotext"
	}
	if cfg.PdftoppmPath == "" {
		cfg.PdftoppmPath = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.PageConcurrency <= 0 {
		cfg.PageConcurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFEngine{cfg: cfg, runner: execRunner{logger: logger}, images: images, logger: logger}
}

// Recognize implements Engine for PDF bytes: extracted text first,
// rasterized OCR fallback second.
func (e *PDFEngine) Recognize(ctx context.Context, pdf []byte, lang string) (BlockTree, error) {
	if lang == "" {
		lang = "eng"
	}
	tmpDir, err := os.MkdirTemp("", "ocr-pdf-*")
	if err != nil {
		return BlockTree{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir) // cleaned up under every exit path

	pdfPath := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0o600); err != nil {
		return BlockTree{}, fmt.Errorf("write temp pdf: %w", err)
	}

	text, pages, err := e.pdfToText(ctx, pdfPath)
	if err == nil && strings.TrimSpace(text) != "" {
		tree := synthesizeTextTree(text, pages)
		tree.Language = lang
		tree.Method = "pdf-text"
		return tree, nil
	}
	if err != nil {
		e.logger.Warn("pdftotext failed, falling back to raster OCR", "error", err)
	}

	return e.rasterOCR(ctx, tmpDir, pdfPath, lang)
}

func (e *PDFEngine) pdfToText(ctx context.Context, path string) (string, int, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.PdftotextPath, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, fmt.Errorf("pdftotext: %w: %s", err, string(errb))
	}
	text := string(out)
	pages := 1 + strings.Count(text, "\f")
	return text, pages, nil
}

func (e *PDFEngine) rasterOCR(ctx context.Context, tmpDir, pdfPath, lang string) (BlockTree, error) {
	prefix := filepath.Join(tmpDir, "page")
	_, errb, err := e.runner.Run(ctx, e.cfg.PdftoppmPath, "-r", strconv.Itoa(e.cfg.DPI), "-png", pdfPath, prefix)
	if err != nil {
		return BlockTree{}, fmt.Errorf("pdftoppm: %w: %s", err, string(errb))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		// single-page PDFs sometimes name without the "-N" suffix
		matches, _ = filepath.Glob(prefix + ".png")
	}
	if len(matches) == 0 {
		return BlockTree{}, fmt.Errorf("pdftoppm produced no pages")
	}

	// Bounded per-job sub-pool for page OCR.
	type pageResult struct {
		idx  int
		tree BlockTree
		err  error
	}
	sem := make(chan struct{}, e.cfg.PageConcurrency)
	results := make([]pageResult, len(matches))
	var wg sync.WaitGroup
	for i, imgPath := range matches {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, imgPath string) {
			defer wg.Done()
			defer func() { <-sem }()
			data, rerr := os.ReadFile(imgPath)
			if rerr != nil {
				results[i] = pageResult{idx: i, err: rerr}
				return
			}
			tree, rerr := e.images.Recognize(ctx, data, lang)
			results[i] = pageResult{idx: i, tree: tree, err: rerr}
		}(i, imgPath)
	}
	wg.Wait()

	merged := BlockTree{Method: "pdf-ocr", Language: lang, PageCount: len(matches)}
	var yOffset float64
	for _, r := range results {
		if r.err != nil {
			// A page may fail individually; logged and skipped.
			e.logger.Warn("pdf page OCR failed, skipping page", "page", r.idx+1, "error", r.err)
			continue
		}
		if r.tree.PageWidth > merged.PageWidth {
			merged.PageWidth = r.tree.PageWidth
		}
		for _, b := range r.tree.Blocks {
			merged.Blocks = append(merged.Blocks, offsetBlock(b, yOffset))
		}
		if r.tree.PageHeight > 0 {
			yOffset += r.tree.PageHeight
		}
	}
	merged.PageHeight = yOffset
	return merged, nil
}

func offsetBlock(b Block, dy float64) Block {
	out := Block{BBox: offsetBBox(b.BBox, dy)}
	for _, p := range b.Paragraphs {
		op := Paragraph{BBox: offsetBBox(p.BBox, dy)}
		for _, l := range p.Lines {
			ol := Line{BBox: offsetBBox(l.BBox, dy)}
			for _, w := range l.Words {
				ol.Words = append(ol.Words, Word{Text: w.Text, Confidence: w.Confidence, BBox: offsetBBox(w.BBox, dy)})
			}
			op.Lines = append(op.Lines, ol)
		}
		out.Paragraphs = append(out.Paragraphs, op)
	}
	return out
}

func offsetBBox(b model.BBox, dy float64) model.BBox {
	return model.BBox{X0: b.X0, Y0: b.Y0 + dy, X1: b.X1, Y1: b.Y1 + dy, Width: b.Width, Height: b.Height}
}

// synthesizeTextTree builds the trivial block tree for the text-PDF
// fast path: a single block holding one paragraph per page, sequential
// y-offsets per line, confidence 100 throughout since no recognition
// occurred.
func synthesizeTextTree(text string, pages int) BlockTree {
	tree := BlockTree{PageWidth: defaultPageWidth, PageHeight: defaultPageHeight * float64(pages), PageCount: pages}
	pageTexts := strings.Split(text, "\f")
	var y float64
	block := Block{}
	for _, pt := range pageTexts {
		para := Paragraph{}
		for _, raw := range strings.Split(pt, "\n") {
			line := strings.TrimRight(raw, "\r")
			if strings.TrimSpace(line) == "" {
				y += textLineHeight
				continue
			}
			words := strings.Fields(line)
			var x float64
			lineNode := Line{}
			for _, w := range words {
				width := float64(len(w)) * 6.0
				bbox := model.BBox{X0: x, Y0: y, X1: x + width, Y1: y + textLineHeight, Width: width, Height: textLineHeight}
				lineNode.Words = append(lineNode.Words, Word{Text: w, Confidence: 100, BBox: bbox})
				x += width + 6.0
			}
			lineNode.BBox = model.BBox{X0: 0, Y0: y, X1: x, Y1: y + textLineHeight, Width: x, Height: textLineHeight}
			para.Lines = append(para.Lines, lineNode)
			para.BBox = unionBBox(para.BBox, lineNode.BBox)
			y += textLineHeight
		}
		if len(para.Lines) > 0 {
			block.Paragraphs = append(block.Paragraphs, para)
			block.BBox = unionBBox(block.BBox, para.BBox)
		}
	}
	if len(block.Paragraphs) > 0 {
		tree.Blocks = append(tree.Blocks, block)
	}
	return tree
}
