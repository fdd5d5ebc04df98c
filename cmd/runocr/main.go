// runocr runs the full validate -> OCR -> enrich pipeline against a
// local file and prints the enriched Result JSON to stdout. Useful for
// exercising the engine adapters without a database or HTTP server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/common"
	"github.com/joseph-ayodele/ocr-service/internal/engine"
	"github.com/joseph-ayodele/ocr-service/internal/enricher"
	"github.com/joseph-ayodele/ocr-service/internal/validator"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <file>")
		os.Exit(2)
	}
	path := os.Args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	outcome, err := validator.Validate(data, "")
	if err != nil {
		logger.Error("validation failed", "path", path, "error", err)
		os.Exit(1)
	}
	for _, w := range outcome.Warnings {
		logger.Warn("validation warning", "warning", w)
	}

	cfg := common.LoadConfig()
	imageEngine := engine.NewTesseractEngine(engine.Config{
		TesseractPath: cfg.OCR.TesseractPath,
		TessdataDir:   cfg.OCR.TessdataDir,
	}, logger)

	var eng engine.Engine = imageEngine
	if outcome.DetectedMime == constants.MimePDF {
		eng = engine.NewPDFEngine(engine.PDFConfig{
			PdftotextPath:   cfg.OCR.PdftotextPath,
			PdftoppmPath:    cfg.OCR.PdftoppmPath,
			DPI:             cfg.OCR.DPI,
			PageConcurrency: cfg.Jobs.PDFPageConcurrency,
		}, imageEngine, logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Jobs.ProcessingTimeout)
	defer cancel()

	start := time.Now()
	tree, err := eng.Recognize(ctx, outcome.Sanitized, cfg.OCR.DefaultLang)
	if err != nil {
		logger.Error("OCR failed", "path", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	result := enricher.Enrich(tree, time.Since(start))
	logger.Info("OCR OK",
		"mime", outcome.DetectedMime,
		"method", tree.Method,
		"pages", tree.PageCount,
		"words", result.Metadata.WordCount,
		"confidence", result.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
