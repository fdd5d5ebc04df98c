package enricher

import (
	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/model"
)

// classifyAlignment computes a line's horizontal alignment from its
// bbox vs. the page width.
func classifyAlignment(bbox model.BBox, pageWidth float64) constants.Alignment {
	if pageWidth <= 0 {
		return constants.AlignLeft
	}
	centerX := (bbox.X0 + bbox.X1) / 2
	pageCenter := pageWidth / 2
	leftMargin := bbox.X0
	rightMargin := pageWidth - bbox.X1

	switch {
	case abs(centerX-pageCenter) < 0.10*pageWidth:
		return constants.AlignCenter
	case rightMargin < 0.10*pageWidth && leftMargin > 0.20*pageWidth:
		return constants.AlignRight
	case abs(leftMargin-rightMargin) < 0.05*pageWidth && leftMargin < 0.10*pageWidth && rightMargin < 0.10*pageWidth:
		return constants.AlignJustified
	default:
		return constants.AlignLeft
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
