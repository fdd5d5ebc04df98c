package enricher

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/ocr-service/internal/model"
)

// Smart-field regexes: first hit wins per field type.
var (
	reInvoiceNumber = regexp.MustCompile(`(?i)(invoice|inv|bill)\s*#?\s*:?\s*([A-Z0-9\-]+)`)
	rePONumber      = regexp.MustCompile(`(?i)(purchase order|po)\s*#?\s*:?\s*([A-Z0-9\-]+)`)
	reTotal         = regexp.MustCompile(`(?i)(grand total|amount due|total)\s*:?\s*\$?\s*([\d,]+\.?\d{0,2})`)
	reSubtotal      = regexp.MustCompile(`(?i)(subtotal|sub-total|sub total)\s*:?\s*\$?\s*([\d,]+\.?\d{0,2})`)
	reTax           = regexp.MustCompile(`(?i)(tax|vat|gst)\s*:?\s*\$?\s*([\d,]+\.?\d{0,2})`)
	reSmartDate     = regexp.MustCompile(`(?i)(date)\s*:?\s*([\d/\-]{6,10}|[A-Za-z]+\s+\d{1,2},?\s+\d{2,4})`)
)

type smartFieldRule struct {
	name string
	re   *regexp.Regexp
	typ  string
}

var smartFieldRules = []smartFieldRule{
	{"Invoice Number", reInvoiceNumber, "invoice_number"},
	{"PO Number", rePONumber, "po_number"},
	{"Total", reTotal, "total"},
	{"Subtotal", reSubtotal, "subtotal"},
	{"Tax", reTax, "tax"},
	{"Date", reSmartDate, "date"},
}

// detectSmartFields applies the regex rules (first hit per type wins)
// then layers in key-value-pair-driven smart fields for the named
// keyword families.
func detectSmartFields(fullText string, pairs []model.KeyValuePair) []model.SmartField {
	var fields []model.SmartField
	seen := map[string]bool{}
	for _, rule := range smartFieldRules {
		m := rule.re.FindStringSubmatch(fullText)
		if m == nil || seen[rule.typ] {
			continue
		}
		value := strings.TrimSpace(m[len(m)-1])
		if value == "" {
			continue
		}
		fields = append(fields, model.SmartField{Name: rule.name, Value: value, Type: rule.typ})
		seen[rule.typ] = true
	}

	for _, kv := range pairs {
		key := strings.ToLower(kv.Key)
		switch {
		case strings.Contains(key, "email"):
			fields = append(fields, model.SmartField{Name: kv.Key, Value: kv.Value, Type: "email"})
		case strings.Contains(key, "phone") || strings.Contains(key, "tel"):
			fields = append(fields, model.SmartField{Name: kv.Key, Value: kv.Value, Type: "phone"})
		case strings.Contains(key, "address"):
			fields = append(fields, model.SmartField{Name: kv.Key, Value: kv.Value, Type: "address"})
		case strings.Contains(key, "customer") || strings.Contains(key, "bill to"):
			fields = append(fields, model.SmartField{Name: kv.Key, Value: kv.Value, Type: "customer"})
		case strings.Contains(key, "vendor") || strings.Contains(key, "from"):
			fields = append(fields, model.SmartField{Name: kv.Key, Value: kv.Value, Type: "vendor"})
		}
	}
	return fields
}
