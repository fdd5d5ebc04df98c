package enricher

import (
	"regexp"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/model"
)

var reListMarker = regexp.MustCompile(`^[\d.)\-•*]\s`)

// classifyParagraph assigns textType (and heading level where
// applicable) by ordered position and font-size rules.
func classifyParagraph(text string, bbox model.BBox, pageHeight float64) (constants.TextType, int) {
	fontSize := fontSizeFromHeight(bbox.Height)

	if pageHeight > 0 && bbox.Y0 < 0.10*pageHeight {
		if fontSize > 16 {
			return constants.TextHeading, 1
		}
		return constants.TextHeading, 2
	}
	if pageHeight > 0 && bbox.Y0 > 0.90*pageHeight {
		return constants.TextFooter, 0
	}
	switch {
	case fontSize > 24:
		return constants.TextHeading, 1
	case fontSize > 20:
		return constants.TextHeading, 2
	case fontSize > 16:
		return constants.TextHeading, 3
	}
	if reListMarker.MatchString(text) {
		return constants.TextList, 0
	}
	if len(text) < 100 && pageHeight > 0 && (bbox.Y0 < 0.15*pageHeight || bbox.Y0 > 0.85*pageHeight) {
		return constants.TextCaption, 0
	}
	return constants.TextBody, 0
}

// classifyBlock assigns blockType based on aggregated paragraph
// attributes.
func classifyBlock(paragraphs []model.Paragraph, pageHeight float64) constants.BlockType {
	if len(paragraphs) == 0 {
		return constants.BlockText
	}
	allHeader := pageHeight > 0
	allFooter := pageHeight > 0
	var anyHeading, anyList bool
	for _, p := range paragraphs {
		if !(pageHeight > 0 && p.BBox.Y0 < 0.10*pageHeight) {
			allHeader = false
		}
		if !(pageHeight > 0 && p.BBox.Y0 > 0.90*pageHeight) {
			allFooter = false
		}
		if p.TextType == constants.TextHeading {
			anyHeading = true
		}
		if p.TextType == constants.TextList {
			anyList = true
		}
	}
	switch {
	case allHeader:
		return constants.BlockHeader
	case allFooter:
		return constants.BlockFooter
	case anyHeading:
		return constants.BlockHead
	case anyList:
		return constants.BlockList
	default:
		return constants.BlockText
	}
}
