package enricher

import (
	"fmt"
	"regexp"
	"strings"
)

// Entity pattern families. Ordering is load-bearing:
// BTW is matched before IBAN so that BTW-shaped values are never
// misclassified as IBAN.
var (
	reBTW  = regexp.MustCompile(`\b[A-Z]{2}\d{9}B\d{2}\b`)
	reIBAN = regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`)

	reCreditCard = regexp.MustCompile(`\b\d{4}[ -]?\d{4}[ -]?\d{4}[ -]?\d{4}\b`)
	reSSN        = regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`)
	reSWIFT      = regexp.MustCompile(`\b[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}(?:[A-Z0-9]{3})?\b`)
	reEIN        = regexp.MustCompile(`\b\d{2}-\d{7}\b`)
	rePercentage = regexp.MustCompile(`\b\d+(?:\.\d+)?%`)
	reEntEmail   = regexp.MustCompile(`[^\s@]+@[^\s@]+\.[a-zA-Z]{2,}`)
	reEntPhone   = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	reEntURL     = regexp.MustCompile(`https?://\S+`)
	reIPv4       = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4]\d|1?\d?\d)\.){3}(?:25[0-5]|2[0-4]\d|1?\d?\d)\b`)

	reDateSlashFull = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	reDateISOFull   = regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`)
	reDateDMon      = regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*\s+\d{2,4}\b`)
	reDateMonD      = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*\s+\d{1,2},?\s+\d{2,4}\b`)

	reReferenceNumber = regexp.MustCompile(`(?i)\bref(?:erence)?\.?\s*#?\s*:?\s*([A-Z0-9\-]{4,})`)
	reSerialNumber    = regexp.MustCompile(`(?i)\bserial\s*#?\s*:?\s*([A-Z0-9\-]{4,})`)
	reRoutingCandidate = regexp.MustCompile(`\b\d{9}\b`)
	reRoutingKeyword   = regexp.MustCompile(`(?i)routing|ABA|RTN`)

	reCurrSymbolBefore = regexp.MustCompile(`[$€£¥]\s?\d[\d,]*(?:\.\d{2})?`)
	reCurrSymbolAfter  = regexp.MustCompile(`\d[\d,]*(?:\.\d{2})?\s?[$€£¥]`)
	reCurrISOCode      = regexp.MustCompile(`(?i)\d[\d,]*(?:\.\d{2})?\s?(?:USD|EUR|GBP|JPY|CAD|AUD)\b`)
	reCurrName         = regexp.MustCompile(`(?i)\d[\d,]*(?:\.\d{2})?\s?(?:dollars|euros|pounds)\b`)
	reCurrParenNeg     = regexp.MustCompile(`\(\$?\d[\d,]*(?:\.\d{2})?\)`)
)

// extractEntities runs the full-document regex pass for the
// "notable data" family, masking credit_card/ssn for display while
// preserving the raw value for callers that need it.
func extractEntities(text string) (entities []entityOut, currencyAmounts, dates, identifiers []string) {
	seen := map[string]bool{}
	add := func(typ, value string) {
		key := typ + "|" + value
		if seen[key] {
			return
		}
		seen[key] = true
		entities = append(entities, entityOut{typ: typ, value: value, display: maskValue(typ, value)})
	}

	for _, m := range reBTW.FindAllString(text, -1) {
		add("vat", m)
	}
	for _, m := range reIBAN.FindAllString(text, -1) {
		if reBTW.MatchString(m) {
			continue // BTW-shaped values are never IBAN
		}
		add("iban", m)
	}
	for _, m := range reCreditCard.FindAllString(text, -1) {
		add("credit_card", m)
	}
	for _, m := range reSSN.FindAllString(text, -1) {
		add("ssn", m)
	}
	for _, m := range reSWIFT.FindAllString(text, -1) {
		if len(m) != 8 && len(m) != 11 {
			continue
		}
		add("swift", m)
	}
	for _, m := range reEIN.FindAllString(text, -1) {
		add("ein", m)
	}
	for _, m := range rePercentage.FindAllString(text, -1) {
		add("percentage", m)
	}
	for _, m := range reEntEmail.FindAllString(text, -1) {
		add("email", m)
	}
	for _, m := range reEntPhone.FindAllString(text, -1) {
		add("phone", m)
	}
	for _, m := range reEntURL.FindAllString(text, -1) {
		add("url", m)
	}
	for _, m := range reIPv4.FindAllString(text, -1) {
		add("ip_address", m)
	}

	for _, re := range []*regexp.Regexp{reDateSlashFull, reDateISOFull, reDateDMon, reDateMonD} {
		for _, m := range re.FindAllString(text, -1) {
			add("date", m)
			dates = append(dates, m)
		}
	}

	for _, m := range reReferenceNumber.FindAllStringSubmatch(text, -1) {
		add("reference_number", m[1])
		identifiers = append(identifiers, m[1])
	}
	for _, m := range reSerialNumber.FindAllStringSubmatch(text, -1) {
		add("serial_number", m[1])
		identifiers = append(identifiers, m[1])
	}

	for _, loc := range reRoutingCandidate.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		winStart := start - 20
		if winStart < 0 {
			winStart = 0
		}
		winEnd := end + 20
		if winEnd > len(text) {
			winEnd = len(text)
		}
		if reRoutingKeyword.MatchString(text[winStart:winEnd]) {
			add("routing_number", text[start:end])
			identifiers = append(identifiers, text[start:end])
		}
	}

	for _, re := range []*regexp.Regexp{reCurrSymbolBefore, reCurrSymbolAfter, reCurrISOCode, reCurrName, reCurrParenNeg} {
		for _, m := range re.FindAllString(text, -1) {
			currencyAmounts = append(currencyAmounts, m)
		}
	}
	currencyAmounts = dedupeStrings(currencyAmounts)

	return entities, currencyAmounts, dedupeStrings(dates), dedupeStrings(identifiers)
}

type entityOut struct {
	typ     string
	value   string
	display string
}

// maskValue implements the masking contract: credit_card and ssn
// entities surface only the last four digits in displayValue.
func maskValue(typ, value string) string {
	digits := onlyDigits(value)
	switch typ {
	case "credit_card":
		if len(digits) < 4 {
			return "****-****-****-****"
		}
		return fmt.Sprintf("****-****-****-%s", digits[len(digits)-4:])
	case "ssn":
		if len(digits) < 4 {
			return "***-**-****"
		}
		return fmt.Sprintf("***-**-%s", digits[len(digits)-4:])
	default:
		return value
	}
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func dedupeStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
