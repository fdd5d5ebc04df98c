// Package model defines the Result document produced by the
// enricher and persisted, serialized, into Job.ocrResult.
package model

import "github.com/joseph-ayodele/ocr-service/constants"

// BBox is a rectangle in page pixels, origin top-left.
type BBox struct {
	X0     float64 `json:"x0"`
	Y0     float64 `json:"y0"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Word is the leaf node of the block tree.
type Word struct {
	Text        string              `json:"text"`
	BBox        BBox                `json:"bbox"`
	Confidence  float64             `json:"confidence"`
	FontSize    int                 `json:"fontSize"`
	ContentType constants.ContentType `json:"contentType"`
}

// Line groups words that share a baseline.
type Line struct {
	Words      []Word              `json:"words"`
	BBox       BBox                `json:"bbox"`
	Confidence float64             `json:"confidence"`
	Alignment  constants.Alignment `json:"alignment"`
}

// Paragraph groups lines belonging to the same text block.
type Paragraph struct {
	Lines      []Line            `json:"lines"`
	BBox       BBox              `json:"bbox"`
	Confidence float64           `json:"confidence"`
	TextType   constants.TextType `json:"textType"`
	Level      int               `json:"level,omitempty"`
}

// Block is the top-level node of the block tree, in reading order.
type Block struct {
	Paragraphs   []Paragraph        `json:"paragraphs"`
	BBox         BBox               `json:"bbox"`
	Confidence   float64            `json:"confidence"`
	BlockType    constants.BlockType `json:"blockType"`
	ReadingOrder int                `json:"readingOrder"`
}

// Table is a structural artifact derived from a table-shaped paragraph.
type Table struct {
	Rows      int        `json:"rows"`
	Cols      int        `json:"cols"`
	Cells     [][]string `json:"cells"`
	HasHeader bool       `json:"hasHeader"`
}

// KeyValuePair is a "Label: value" or "Label - value" line.
type KeyValuePair struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	KeyBBox   BBox   `json:"keyBbox"`
	ValueBBox BBox   `json:"valueBbox"`
}

// SmartField is a typed value bound to a domain-specific name.
type SmartField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Entity is a typed substring extracted by a full-document regex pass.
// DisplayValue is the safe-to-render form (masked for credit_card/ssn);
// callers MUST prefer DisplayValue over Value.
type Entity struct {
	Type         string `json:"type"`
	Value        string `json:"value"`
	DisplayValue string `json:"displayValue"`
}

// NotableData groups the document's extracted entities by family.
type NotableData struct {
	Entities        []Entity `json:"entities"`
	CurrencyAmounts []string `json:"currencyAmounts"`
	Dates           []string `json:"dates"`
	Identifiers     []string `json:"identifiers"`
}

// PageLayout summarizes the gross visual layout of the document.
type PageLayout struct {
	Columns     int     `json:"columns"`
	HasHeader   bool    `json:"hasHeader"`
	HasFooter   bool    `json:"hasFooter"`
	TextDensity float64 `json:"textDensity"`
}

// Structure is the derived semantic layer over the raw block tree.
type Structure struct {
	Title         string                 `json:"title"`
	Headings      []string               `json:"headings"`
	Lists         []string               `json:"lists"`
	Tables        []Table                `json:"tables"`
	KeyValuePairs []KeyValuePair         `json:"keyValuePairs"`
	SmartFields   []SmartField           `json:"smartFields"`
	NotableData   NotableData            `json:"notableData"`
	DocumentType  constants.DocumentType `json:"documentType"`
	PageLayout    PageLayout             `json:"pageLayout"`
}

// Metadata carries document-level statistics, not derived from a
// single block.
type Metadata struct {
	Language        string  `json:"language"`
	ProcessingTimeMs int64   `json:"processingTimeMs"`
	PageCount       int     `json:"pageCount,omitempty"`
	WordCount       int     `json:"wordCount"`
	LineCount       int     `json:"lineCount"`
	AvgConfidence   float64 `json:"avgConfidence"`
}

// Result is the whole enriched document. It is immutable once
// written and is the sole payload of Job.ocrResult.
type Result struct {
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	Blocks     []Block   `json:"blocks"`
	Structure  Structure `json:"structure"`
	Metadata   Metadata  `json:"metadata"`
}
