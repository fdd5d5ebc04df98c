package enricher

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/ocr-service/constants"
)

// Word content-type patterns, checked in the documented order
// — first match wins.
var (
	reEmail    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reURL      = regexp.MustCompile(`^(https?://|www\.)`)
	rePhone    = regexp.MustCompile(`^[\d\s\-()+]{7,}$`)
	rePhoneRun = regexp.MustCompile(`\d{3,}`)
	reCurrency = regexp.MustCompile(`^[$€£¥]?\s*\d+([,.]\d+)*(\.\d{2})?$`)
	// Bare digit runs also satisfy reCurrency's shape; requiring a
	// symbol or a cents tail keeps the number class reachable.
	reCurrencyMark = regexp.MustCompile(`^[$€£¥]|\.\d{2}$`)
	reDateSlash = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}$`)
	reDateISO   = regexp.MustCompile(`^\d{4}[/-]\d{1,2}[/-]\d{1,2}$`)
	reNumber   = regexp.MustCompile(`^\d+([,.]\d+)*$`)
)

// classifyContentType assigns a Word's contentType by the first
// matching pattern; order is significant.
func classifyContentType(text string) constants.ContentType {
	t := strings.TrimSpace(text)
	switch {
	case reEmail.MatchString(t):
		return constants.ContentEmail
	case reURL.MatchString(t):
		return constants.ContentURL
	case rePhone.MatchString(t) && rePhoneRun.MatchString(t):
		return constants.ContentPhone
	case reCurrency.MatchString(t) && reCurrencyMark.MatchString(t):
		return constants.ContentCurrency
	case reDateSlash.MatchString(t) || reDateISO.MatchString(t):
		return constants.ContentDate
	case reNumber.MatchString(t):
		return constants.ContentNumber
	default:
		return constants.ContentText
	}
}
