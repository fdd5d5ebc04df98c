package enricher

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/ocr-service/internal/model"
)

var (
	reKVColon = regexp.MustCompile(`^([^:]+):\s*(.+)$`)
	reKVDash  = regexp.MustCompile(`^([^-]+)\s*-\s*(.+)$`)
)

// detectKeyValuePairs scans every line for a "Key: value" or
// "Key - value" shape. Bounding boxes for key/value are
// approximated as the first 40%/last 60% of the line's words.
func detectKeyValuePairs(paragraphs []model.Paragraph) []model.KeyValuePair {
	var pairs []model.KeyValuePair
	for _, p := range paragraphs {
		for _, line := range p.Lines {
			text := lineText(line)
			key, value, ok := matchKV(text)
			if !ok {
				continue
			}
			keyBBox, valueBBox := splitLineBBox(line)
			pairs = append(pairs, model.KeyValuePair{Key: key, Value: value, KeyBBox: keyBBox, ValueBBox: valueBBox})
		}
	}
	return pairs
}

func matchKV(text string) (key, value string, ok bool) {
	if m := reKVColon.FindStringSubmatch(text); m != nil {
		k, v := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if len(k) < 50 && len(v) > 0 && len(v) < 200 {
			return k, v, true
		}
	}
	if m := reKVDash.FindStringSubmatch(text); m != nil {
		k, v := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if len(k) < 50 && len(v) > 0 && len(v) < 200 {
			return k, v, true
		}
	}
	return "", "", false
}

func lineText(line model.Line) string {
	parts := make([]string, 0, len(line.Words))
	for _, w := range line.Words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

func splitLineBBox(line model.Line) (model.BBox, model.BBox) {
	n := len(line.Words)
	if n == 0 {
		return model.BBox{}, model.BBox{}
	}
	keyEnd := (n*4 + 5) / 10 // first 40%, rounded
	if keyEnd < 1 {
		keyEnd = 1
	}
	if keyEnd >= n {
		keyEnd = n - 1
	}
	var keyBBox, valueBBox model.BBox
	for i, w := range line.Words {
		if i < keyEnd {
			keyBBox = unionBBoxModel(keyBBox, w.BBox)
		} else {
			valueBBox = unionBBoxModel(valueBBox, w.BBox)
		}
	}
	return keyBBox, valueBBox
}

func unionBBoxModel(a, b model.BBox) model.BBox {
	if a == (model.BBox{}) {
		return b
	}
	x0, y0 := minF(a.X0, b.X0), minF(a.Y0, b.Y0)
	x1, y1 := maxF(a.X1, b.X1), maxF(a.Y1, b.Y1)
	return model.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1, Width: x1 - x0, Height: y1 - y0}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
