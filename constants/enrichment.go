package constants

// DocumentType is the coarse classification assigned to a Result tree
// by the enricher's structure analysis.
type DocumentType string

const (
	DocInvoice DocumentType = "invoice"
	DocReceipt DocumentType = "receipt"
	DocForm    DocumentType = "form"
	DocReport  DocumentType = "report"
	DocLetter  DocumentType = "letter"
	DocUnknown DocumentType = "unknown"
)

// ContentType classifies a single OCR word.
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentNumber   ContentType = "number"
	ContentDate     ContentType = "date"
	ContentEmail    ContentType = "email"
	ContentURL      ContentType = "url"
	ContentCurrency ContentType = "currency"
	ContentPhone    ContentType = "phone"
)

// Alignment classifies a line's horizontal placement on the page.
type Alignment string

const (
	AlignLeft      Alignment = "left"
	AlignCenter    Alignment = "center"
	AlignRight     Alignment = "right"
	AlignJustified Alignment = "justified"
)

// TextType classifies a paragraph.
type TextType string

const (
	TextHeading TextType = "heading"
	TextBody    TextType = "body"
	TextList    TextType = "list"
	TextCaption TextType = "caption"
	TextFooter  TextType = "footer"
)

// BlockType classifies a block.
type BlockType string

const (
	BlockText   BlockType = "text"
	BlockHead   BlockType = "heading"
	BlockList   BlockType = "list"
	BlockTable  BlockType = "table"
	BlockHeader BlockType = "header"
	BlockFooter BlockType = "footer"
)
