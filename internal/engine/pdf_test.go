package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// fakeRunner substitutes the pdftotext/pdftoppm subprocess calls with
// canned output per command name.
type fakeRunner struct {
	stdout map[string][]byte
	errs   map[string]error
	calls  []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, name)
	if err, ok := f.errs[name]; ok {
		return nil, []byte("stub failure"), err
	}
	return f.stdout[name], nil, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPDFEngine(r Runner) *PDFEngine {
	e := NewPDFEngine(PDFConfig{}, NewTesseractEngine(Config{}, discardLogger()), discardLogger())
	e.runner = r
	return e
}

func TestPDFRecognize_TextFastPath(t *testing.T) {
	runner := &fakeRunner{stdout: map[string][]byte{
		"pdftotext": []byte("Invoice #12345\nTotal: $99.00\n\fPage two text\n"),
	}}
	e := newTestPDFEngine(runner)

	tree, err := e.Recognize(context.Background(), []byte("%PDF-fake"), "eng")
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if tree.Method != "pdf-text" {
		t.Fatalf("expected the text fast path, got %q", tree.Method)
	}
	if tree.PageCount != 2 {
		t.Fatalf("expected 2 pages from the form-feed split, got %d", tree.PageCount)
	}
	// Extracted text is reported at confidence 100: no recognition
	// occurred.
	for _, b := range tree.Blocks {
		for _, p := range b.Paragraphs {
			for _, l := range p.Lines {
				for _, w := range l.Words {
					if w.Confidence != 100 {
						t.Fatalf("expected confidence 100 for extracted text, got %v", w.Confidence)
					}
				}
			}
		}
	}
	var words int
	for _, b := range tree.Blocks {
		for _, p := range b.Paragraphs {
			for _, l := range p.Lines {
				words += len(l.Words)
			}
		}
	}
	if words != 7 {
		t.Fatalf("expected 7 words, got %d", words)
	}
	for _, call := range runner.calls {
		if call == "pdftoppm" {
			t.Fatalf("text fast path must not rasterize")
		}
	}
}

func TestPDFRecognize_SequentialYOffsets(t *testing.T) {
	runner := &fakeRunner{stdout: map[string][]byte{
		"pdftotext": []byte("first line\nsecond line\n"),
	}}
	tree, err := newTestPDFEngine(runner).Recognize(context.Background(), []byte("%PDF-fake"), "eng")
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	lines := tree.Blocks[0].Paragraphs[0].Lines
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !(lines[1].BBox.Y0 > lines[0].BBox.Y0) {
		t.Fatalf("synthesized lines must carry increasing y-offsets: %v then %v",
			lines[0].BBox.Y0, lines[1].BBox.Y0)
	}
}

func TestPDFRecognize_EmptyTextFallsBackToRaster(t *testing.T) {
	// pdftotext succeeds but extracts nothing; the engine must try
	// pdftoppm. The stub produces no page images, so the call errors,
	// which is fine — the assertion is about path selection.
	runner := &fakeRunner{stdout: map[string][]byte{
		"pdftotext": []byte("   \n"),
		"pdftoppm":  nil,
	}}
	_, err := newTestPDFEngine(runner).Recognize(context.Background(), []byte("%PDF-fake"), "eng")
	if err == nil {
		t.Fatalf("expected an error when rasterization yields no pages")
	}
	if !strings.Contains(err.Error(), "no pages") {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawPpm bool
	for _, call := range runner.calls {
		if call == "pdftoppm" {
			sawPpm = true
		}
	}
	if !sawPpm {
		t.Fatalf("expected fallback to pdftoppm, calls were %v", runner.calls)
	}
}

func TestPDFRecognize_PdftotextErrorFallsBackToRaster(t *testing.T) {
	runner := &fakeRunner{
		stdout: map[string][]byte{},
		errs:   map[string]error{"pdftotext": errors.New("exit status 1")},
	}
	_, err := newTestPDFEngine(runner).Recognize(context.Background(), []byte("%PDF-fake"), "eng")
	if err == nil {
		t.Fatalf("expected raster failure to surface once both paths are exhausted")
	}
	var sawPpm bool
	for _, call := range runner.calls {
		if call == "pdftoppm" {
			sawPpm = true
		}
	}
	if !sawPpm {
		t.Fatalf("expected pdftoppm after pdftotext failure, calls were %v", runner.calls)
	}
}
