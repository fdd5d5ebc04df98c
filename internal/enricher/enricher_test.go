package enricher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/engine"
	"github.com/joseph-ayodele/ocr-service/internal/model"
)

func bbox(x0, y0, x1, y1 float64) model.BBox {
	return model.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1, Width: x1 - x0, Height: y1 - y0}
}

// lineOf lays out words left-to-right starting at x0 with the given
// word height, ~6px per character plus a gap.
func lineOf(x0, y0, h float64, words ...string) engine.Line {
	line := engine.Line{}
	x := x0
	for _, w := range words {
		width := float64(len(w)) * 6
		line.Words = append(line.Words, engine.Word{
			Text: w, Confidence: 90, BBox: bbox(x, y0, x+width, y0+h),
		})
		x += width + 6
	}
	line.BBox = bbox(x0, y0, x-6, y0+h)
	return line
}

func treeOf(pageW, pageH float64, paragraphs ...engine.Paragraph) engine.BlockTree {
	block := engine.Block{Paragraphs: paragraphs}
	for _, p := range paragraphs {
		block.BBox = unionTestBBox(block.BBox, p.BBox)
	}
	return engine.BlockTree{
		Blocks: []engine.Block{block}, PageWidth: pageW, PageHeight: pageH,
		PageCount: 1, Language: "eng",
	}
}

func paraOf(lines ...engine.Line) engine.Paragraph {
	p := engine.Paragraph{Lines: lines}
	for _, l := range lines {
		p.BBox = unionTestBBox(p.BBox, l.BBox)
	}
	return p
}

func unionTestBBox(a, b model.BBox) model.BBox {
	if a == (model.BBox{}) {
		return b
	}
	x0, y0 := minF(a.X0, b.X0), minF(a.Y0, b.Y0)
	x1, y1 := maxF(a.X1, b.X1), maxF(a.Y1, b.Y1)
	return model.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1, Width: x1 - x0, Height: y1 - y0}
}

func TestEnrich_IsDeterministic(t *testing.T) {
	tree := treeOf(612, 792,
		paraOf(lineOf(50, 300, 12, "Invoice", "#12345")),
		paraOf(lineOf(50, 330, 12, "Total:", "$99.50")),
	)

	a := Enrich(tree, 100*time.Millisecond)
	b := Enrich(tree, 100*time.Millisecond)

	ja, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatalf("Enrich must be byte-for-byte deterministic for identical input")
	}
}

func TestEnrich_SerializationRoundTripsStably(t *testing.T) {
	tree := treeOf(612, 792, paraOf(lineOf(50, 300, 12, "Ref:", "AB-1234")))
	first, err := json.Marshal(Enrich(tree, time.Millisecond))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed model.Result
	if err := json.Unmarshal(first, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	second, err := json.Marshal(parsed)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("serialize -> parse -> serialize must be identity")
	}
}

func TestEnrich_WordAndLineCounts(t *testing.T) {
	tree := treeOf(612, 792,
		paraOf(
			lineOf(50, 300, 12, "alpha", "beta"),
			lineOf(50, 320, 12, "gamma"),
		),
	)
	r := Enrich(tree, 0)
	if r.Metadata.WordCount != 3 {
		t.Fatalf("expected 3 words, got %d", r.Metadata.WordCount)
	}
	if r.Metadata.LineCount != 2 {
		t.Fatalf("expected 2 lines, got %d", r.Metadata.LineCount)
	}
	if r.Metadata.PageCount != 1 {
		t.Fatalf("expected pageCount 1, got %d", r.Metadata.PageCount)
	}
	if r.Confidence != 90 {
		t.Fatalf("expected mean confidence 90, got %v", r.Confidence)
	}
}

func TestEnrich_ReadingOrderIsOneBased(t *testing.T) {
	tree := engine.BlockTree{
		PageWidth: 612, PageHeight: 792, PageCount: 1,
		Blocks: []engine.Block{
			{Paragraphs: []engine.Paragraph{paraOf(lineOf(50, 300, 12, "first"))}},
			{Paragraphs: []engine.Paragraph{paraOf(lineOf(50, 400, 12, "second"))}},
		},
	}
	r := Enrich(tree, 0)
	if len(r.Blocks) != 2 || r.Blocks[0].ReadingOrder != 1 || r.Blocks[1].ReadingOrder != 2 {
		t.Fatalf("expected 1-based sequential reading order, got %+v", r.Blocks)
	}
}

func TestEnrich_EmptyTreeIsValid(t *testing.T) {
	r := Enrich(engine.BlockTree{PageWidth: 612, PageHeight: 792, PageCount: 1}, 0)
	if r.Text != "" || r.Metadata.WordCount != 0 {
		t.Fatalf("a zero-block tree must enrich to an empty, valid Result")
	}
	if _, err := json.Marshal(r); err != nil {
		t.Fatalf("empty Result must serialize: %v", err)
	}
}

func TestClassifyContentType(t *testing.T) {
	tests := []struct {
		text string
		want constants.ContentType
	}{
		{"bob@example.com", constants.ContentEmail},
		{"https://example.com/x", constants.ContentURL},
		{"www.example.com", constants.ContentURL},
		{"(555) 123-4567", constants.ContentPhone},
		{"$1,234.56", constants.ContentCurrency},
		{"€99", constants.ContentCurrency},
		{"12/31/2024", constants.ContentDate},
		// The phone pattern is checked before date and accepts a dashed
		// all-digit token with a three-digit run, so ISO dates read as phone.
		{"2024-12-31", constants.ContentPhone},
		{"1234", constants.ContentNumber},
		{"1,234.5", constants.ContentNumber},
		{"hello", constants.ContentText},
	}
	for _, tt := range tests {
		if got := classifyContentType(tt.text); got != tt.want {
			t.Errorf("classifyContentType(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestClassifyContentType_PhoneNeedsDigitRun(t *testing.T) {
	// Seven-plus chars of phone alphabet but no run of 3 digits.
	if got := classifyContentType("1-2-3-4-5-6"); got == constants.ContentPhone {
		t.Fatalf("phone requires >=3 consecutive digits")
	}
}

func TestClassifyAlignment(t *testing.T) {
	const pageW = 1000.0
	tests := []struct {
		name string
		box  model.BBox
		want constants.Alignment
	}{
		{"centered", bbox(400, 0, 600, 12), constants.AlignCenter},
		{"right", bbox(700, 0, 950, 12), constants.AlignRight},
		// A full-width line's center coincides with the page center,
		// so the center rule, checked first, wins over justified.
		{"full width resolves as center", bbox(30, 0, 980, 12), constants.AlignCenter},
		{"left", bbox(50, 0, 400, 12), constants.AlignLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyAlignment(tt.box, pageW); got != tt.want {
				t.Fatalf("classifyAlignment(%+v) = %s, want %s", tt.box, got, tt.want)
			}
		})
	}
}

func TestClassifyParagraph(t *testing.T) {
	const pageH = 1000.0
	tests := []struct {
		name      string
		text      string
		box       model.BBox
		wantType  constants.TextType
		wantLevel int
	}{
		{"top of page is heading", "Anything", bbox(0, 50, 200, 80), constants.TextHeading, 1},
		{"top small font heading level 2", "Anything", bbox(0, 50, 200, 65), constants.TextHeading, 2},
		{"bottom is footer", "Page 1 of 2", bbox(0, 950, 200, 962), constants.TextFooter, 0},
		{"huge font mid-page", "BIG", bbox(0, 500, 200, 540), constants.TextHeading, 1},
		{"list marker", "- first item", bbox(0, 500, 200, 512), constants.TextList, 0},
		{"body", "An ordinary paragraph of sufficient length to avoid the caption branch entirely, well over one hundred characters so that rule five cannot apply to it.", bbox(0, 500, 200, 512), constants.TextBody, 0},
		{"short near top is caption", "Fig 1", bbox(0, 120, 200, 132), constants.TextCaption, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotLevel := classifyParagraph(tt.text, tt.box, pageH)
			if gotType != tt.wantType || gotLevel != tt.wantLevel {
				t.Fatalf("classifyParagraph(%q) = (%s, %d), want (%s, %d)",
					tt.text, gotType, gotLevel, tt.wantType, tt.wantLevel)
			}
		})
	}
}

func TestDocumentTypeClassification(t *testing.T) {
	invoiceTree := treeOf(612, 792,
		paraOf(lineOf(50, 300, 12, "Invoice", "#INV-001")),
		paraOf(lineOf(50, 330, 12, "Total:", "$250.00")),
	)
	r := Enrich(invoiceTree, 0)
	if r.Structure.DocumentType != constants.DocInvoice {
		t.Fatalf("expected invoice, got %s", r.Structure.DocumentType)
	}

	receiptTree := treeOf(612, 792,
		paraOf(lineOf(50, 300, 12, "Receipt")),
		paraOf(lineOf(50, 330, 12, "Total:", "12.00")),
	)
	r = Enrich(receiptTree, 0)
	if r.Structure.DocumentType != constants.DocReceipt {
		t.Fatalf("expected receipt, got %s", r.Structure.DocumentType)
	}

	plainTree := treeOf(612, 792, paraOf(lineOf(50, 300, 12, "nothing", "special", "here")))
	r = Enrich(plainTree, 0)
	if r.Structure.DocumentType != constants.DocUnknown {
		t.Fatalf("expected unknown, got %s", r.Structure.DocumentType)
	}
}

func TestEnrich_KeyValuePairs(t *testing.T) {
	tree := treeOf(612, 792,
		paraOf(lineOf(50, 300, 12, "Customer:", "Acme", "Corp")),
	)
	r := Enrich(tree, 0)
	if len(r.Structure.KeyValuePairs) != 1 {
		t.Fatalf("expected one key-value pair, got %+v", r.Structure.KeyValuePairs)
	}
	kv := r.Structure.KeyValuePairs[0]
	if kv.Key != "Customer" || kv.Value != "Acme Corp" {
		t.Fatalf("unexpected pair %+v", kv)
	}
	// A customer-keyed pair also emits a typed smart field.
	if !hasSmartField(r.Structure.SmartFields, "customer") {
		t.Fatalf("expected a customer smart field, got %+v", r.Structure.SmartFields)
	}
}
