// Package engine is the OCR boundary. Core code depends only on the
// Engine interface; TesseractEngine and PDFEngine are the concrete
// implementations this repository ships, shelling out to external
// binaries through a stubbable Runner and returning a hierarchical
// block tree with per-word bounding boxes and confidences.
package engine

import (
	"context"

	"github.com/joseph-ayodele/ocr-service/internal/model"
)

// Word is the engine's raw recognition of a single token: text plus
// position and confidence, before any enrichment classification.
type Word struct {
	Text       string
	BBox       model.BBox
	Confidence float64 // 0-100
}

// Line groups words sharing a text line.
type Line struct {
	Words []Word
	BBox  model.BBox
}

// Paragraph groups lines belonging to one visual paragraph.
type Paragraph struct {
	Lines []Line
	BBox  model.BBox
}

// Block is the top-level grouping, already in reading order as
// produced by the engine.
type Block struct {
	Paragraphs []Paragraph
	BBox       model.BBox
}

// BlockTree is the complete raw recognition output for one image, or
// for a whole PDF with its pages stacked vertically, the input to the
// Enricher.
type BlockTree struct {
	Blocks      []Block
	PageWidth   float64
	PageHeight  float64
	PageCount   int
	Language    string
	Method      string // "image-ocr" | "pdf-text" | "pdf-ocr"
}

// Engine is the opaque OCR capability: given image bytes and a
// language hint, produce a block tree with positions and confidences.
// A zero-block result is a valid, non-error outcome.
type Engine interface {
	Recognize(ctx context.Context, image []byte, lang string) (BlockTree, error)
}
