package enricher

import (
	"sort"
	"strings"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/model"
)

// analyzeStructure derives the semantic structure over
// the already-classified block tree: tables, key-value pairs, smart
// fields, notable-data entities, document-type label, and page
// layout.
func analyzeStructure(blocks []model.Block, fullText string, pageW, pageH float64) model.Structure {
	var allParagraphs []model.Paragraph
	var headings, lists []string
	var title string
	for _, b := range blocks {
		for _, p := range b.Paragraphs {
			allParagraphs = append(allParagraphs, p)
			text := paragraphText(p)
			switch p.TextType {
			case constants.TextHeading:
				headings = append(headings, text)
				if title == "" && p.Level == 1 {
					title = text
				}
			case constants.TextList:
				lists = append(lists, text)
			}
		}
	}
	if title == "" && len(headings) > 0 {
		title = headings[0]
	}

	tables := detectTables(allParagraphs)
	kvPairs := detectKeyValuePairs(allParagraphs)
	smartFields := detectSmartFields(fullText, kvPairs)
	entityList, currencyAmounts, dates, identifiers := extractEntities(fullText)

	entities := make([]model.Entity, 0, len(entityList))
	for _, e := range entityList {
		entities = append(entities, model.Entity{Type: e.typ, Value: e.value, DisplayValue: e.display})
	}

	docType := classifyDocumentType(fullText, smartFields, blocks, tables)
	layout := computePageLayout(blocks, pageW, pageH)

	return model.Structure{
		Title:        title,
		Headings:     headings,
		Lists:        lists,
		Tables:       tables,
		KeyValuePairs: kvPairs,
		SmartFields:  smartFields,
		NotableData: model.NotableData{
			Entities:        entities,
			CurrencyAmounts: currencyAmounts,
			Dates:           dates,
			Identifiers:     identifiers,
		},
		DocumentType: docType,
		PageLayout:   layout,
	}
}

func paragraphText(p model.Paragraph) string {
	var parts []string
	for _, l := range p.Lines {
		parts = append(parts, lineText(l))
	}
	return strings.Join(parts, " ")
}

func hasSmartField(fields []model.SmartField, typ string) bool {
	for _, f := range fields {
		if f.Type == typ {
			return true
		}
	}
	return false
}

// classifyDocumentType applies the ordered document-type rules.
func classifyDocumentType(fullText string, fields []model.SmartField, blocks []model.Block, tables []model.Table) constants.DocumentType {
	lower := strings.ToLower(fullText)
	hasTotal := hasSmartField(fields, "total")
	hasInvoiceNumber := hasSmartField(fields, "invoice_number")
	hasAddress := hasSmartField(fields, "address")

	switch {
	case (strings.Contains(lower, "invoice") || hasInvoiceNumber) && hasTotal:
		return constants.DocInvoice
	case strings.Contains(lower, "receipt") && hasTotal:
		return constants.DocReceipt
	case len(fields) > 5:
		return constants.DocForm
	case hasAnyHeading(blocks) && len(tables) >= 1:
		return constants.DocReport
	case hasAddress && len(blocks) > 3:
		return constants.DocLetter
	default:
		return constants.DocUnknown
	}
}

func hasAnyHeading(blocks []model.Block) bool {
	for _, b := range blocks {
		if b.BlockType == constants.BlockHead {
			return true
		}
	}
	return false
}

// computePageLayout derives the gross visual layout of the document:
// column count from large horizontal gaps between block x-starts,
// header/footer presence from block classifications, and text density
// as total paragraph area divided by the largest x1*y1 of any paragraph.
func computePageLayout(blocks []model.Block, pageW, pageH float64) model.PageLayout {
	var xStarts []float64
	var hasHeader, hasFooter bool
	var areaSum float64
	var maxX1Y1 float64

	for _, b := range blocks {
		xStarts = append(xStarts, b.BBox.X0)
		if b.BlockType == constants.BlockHeader {
			hasHeader = true
		}
		if b.BlockType == constants.BlockFooter {
			hasFooter = true
		}
		for _, p := range b.Paragraphs {
			areaSum += p.BBox.Width * p.BBox.Height
			if v := p.BBox.X1 * p.BBox.Y1; v > maxX1Y1 {
				maxX1Y1 = v
			}
		}
	}
	sort.Float64s(xStarts)
	gaps := 0
	for i := 1; i < len(xStarts); i++ {
		if xStarts[i]-xStarts[i-1] > 50 {
			gaps++
		}
	}

	var density float64
	if maxX1Y1 > 0 {
		density = round2(areaSum / maxX1Y1)
	}

	return model.PageLayout{
		Columns:     1 + gaps,
		HasHeader:   hasHeader,
		HasFooter:   hasFooter,
		TextDensity: density,
	}
}
