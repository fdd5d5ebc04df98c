// Package enricher turns a raw OCR block tree into the enriched
// Result document: a pure, deterministic function that performs no
// I/O and holds no mutable module-level state.
package enricher

import (
	"strings"
	"time"

	"github.com/joseph-ayodele/ocr-service/internal/engine"
	"github.com/joseph-ayodele/ocr-service/internal/model"
)

// Enrich runs every enrichment subtask in order and returns the immutable
// Result tree. processingTime is wall-clock time already spent on
// OCR; this call adds negligible CPU-bound time on top, reported
// together in metadata.processingTimeMs by the caller.
func Enrich(tree engine.BlockTree, processingTime time.Duration) model.Result {
	pageW, pageH := tree.PageWidth, tree.PageHeight
	if pageW <= 0 {
		pageW = defaultPageWidth
	}
	if pageH <= 0 {
		pageH = defaultPageHeight
	}

	blocks := make([]model.Block, 0, len(tree.Blocks))
	var wordCount, lineCount int
	var confSum float64
	var confN int
	var textParts []string

	for bi, rb := range tree.Blocks {
		paragraphs := make([]model.Paragraph, 0, len(rb.Paragraphs))
		for _, rp := range rb.Paragraphs {
			lines := make([]model.Line, 0, len(rp.Lines))
			var paraText strings.Builder
			for _, rl := range rp.Lines {
				words := make([]model.Word, 0, len(rl.Words))
				var lineConf float64
				for _, rw := range rl.Words {
					ct := classifyContentType(rw.Text)
					fs := fontSizeFromHeight(rw.BBox.Height)
					words = append(words, model.Word{
						Text: rw.Text, BBox: rw.BBox, Confidence: rw.Confidence,
						FontSize: fs, ContentType: ct,
					})
					lineConf += rw.Confidence
					wordCount++
					confSum += rw.Confidence
					confN++
					if paraText.Len() > 0 {
						paraText.WriteByte(' ')
					}
					paraText.WriteString(rw.Text)
				}
				if len(words) > 0 {
					lineConf /= float64(len(words))
				}
				lines = append(lines, model.Line{
					Words: words, BBox: rl.BBox, Confidence: lineConf,
					Alignment: classifyAlignment(rl.BBox, pageW),
				})
				lineCount++
			}
			textType, level := classifyParagraph(paraText.String(), rp.BBox, pageH)
			paragraphs = append(paragraphs, model.Paragraph{
				Lines: lines, BBox: rp.BBox, Confidence: avgLineConfidence(lines),
				TextType: textType, Level: level,
			})
			if paraText.Len() > 0 {
				textParts = append(textParts, paraText.String())
			}
		}
		blockType := classifyBlock(paragraphs, pageH)
		blocks = append(blocks, model.Block{
			Paragraphs: paragraphs, BBox: rb.BBox, Confidence: avgParaConfidence(paragraphs),
			BlockType: blockType, ReadingOrder: bi + 1,
		})
	}

	fullText := strings.Join(textParts, "\n")
	var meanConf float64
	if confN > 0 {
		meanConf = confSum / float64(confN)
	}

	structure := analyzeStructure(blocks, fullText, pageW, pageH)

	lang := tree.Language
	if lang == "" {
		lang = "en"
	}

	metadata := model.Metadata{
		Language:         lang,
		ProcessingTimeMs: processingTime.Milliseconds(),
		WordCount:        wordCount,
		LineCount:        lineCount,
		AvgConfidence:    round2(meanConf),
	}
	if tree.PageCount > 0 {
		metadata.PageCount = tree.PageCount
	}

	return model.Result{
		Text:       fullText,
		Confidence: round2(meanConf),
		Blocks:     blocks,
		Structure:  structure,
		Metadata:   metadata,
	}
}

const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

func avgLineConfidence(lines []model.Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	var sum float64
	for _, l := range lines {
		sum += l.Confidence
	}
	return round2(sum / float64(len(lines)))
}

func avgParaConfidence(paras []model.Paragraph) float64 {
	if len(paras) == 0 {
		return 0
	}
	var sum float64
	for _, p := range paras {
		sum += p.Confidence
	}
	return round2(sum / float64(len(paras)))
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}

func fontSizeFromHeight(h float64) int {
	return int(h*0.75 + 0.5)
}
