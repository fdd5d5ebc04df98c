package enricher

import (
	"strings"
	"testing"
)

func findEntities(entities []entityOut, typ string) []entityOut {
	var out []entityOut
	for _, e := range entities {
		if e.typ == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestExtractEntities_BTWBeforeIBAN(t *testing.T) {
	// NL123456789B01 matches both the BTW shape and, prefix-wise, the
	// IBAN shape; it must classify as vat and never iban.
	entities, _, _, _ := extractEntities("VAT number NL123456789B01 on file")
	if got := findEntities(entities, "vat"); len(got) != 1 || got[0].value != "NL123456789B01" {
		t.Fatalf("expected one vat entity, got %+v", entities)
	}
	if got := findEntities(entities, "iban"); len(got) != 0 {
		t.Fatalf("BTW-shaped values must never be iban, got %+v", got)
	}
}

func TestExtractEntities_IBANStillDetected(t *testing.T) {
	entities, _, _, _ := extractEntities("Pay to GB29NWBK60161331926819 please")
	if got := findEntities(entities, "iban"); len(got) != 1 || got[0].value != "GB29NWBK60161331926819" {
		t.Fatalf("expected the IBAN to be detected, got %+v", entities)
	}
}

func TestExtractEntities_CreditCardMasked(t *testing.T) {
	entities, _, _, _ := extractEntities("Card: 4111-1111-1111-1234")
	cards := findEntities(entities, "credit_card")
	if len(cards) != 1 {
		t.Fatalf("expected one credit_card entity, got %+v", entities)
	}
	if cards[0].value != "4111-1111-1111-1234" {
		t.Fatalf("value must preserve the raw digits, got %q", cards[0].value)
	}
	if cards[0].display != "****-****-****-1234" {
		t.Fatalf("displayValue must be the mask with correct last-four, got %q", cards[0].display)
	}
	if strings.Contains(cards[0].display, "4111") {
		t.Fatalf("displayValue must not leak leading digits")
	}
}

func TestExtractEntities_SSNMasked(t *testing.T) {
	entities, _, _, _ := extractEntities("SSN 123-45-6789")
	ssns := findEntities(entities, "ssn")
	if len(ssns) != 1 {
		t.Fatalf("expected one ssn entity, got %+v", entities)
	}
	if ssns[0].display != "***-**-6789" {
		t.Fatalf("expected masked ssn, got %q", ssns[0].display)
	}
	if ssns[0].value != "123-45-6789" {
		t.Fatalf("value must preserve the raw form, got %q", ssns[0].value)
	}
}

func TestExtractEntities_RoutingNumberNeedsKeyword(t *testing.T) {
	entities, _, _, _ := extractEntities("Routing: 021000021 for wires")
	if got := findEntities(entities, "routing_number"); len(got) != 1 || got[0].value != "021000021" {
		t.Fatalf("expected routing number with keyword in window, got %+v", entities)
	}

	entities, _, _, _ = extractEntities("Order total units shipped 021000021 across regions")
	if got := findEntities(entities, "routing_number"); len(got) != 0 {
		t.Fatalf("bare 9-digit numbers must not become routing numbers, got %+v", got)
	}
}

func TestExtractEntities_IPv4OctetsBounded(t *testing.T) {
	entities, _, _, _ := extractEntities("host 192.168.0.12 and bogus 999.1.1.1")
	ips := findEntities(entities, "ip_address")
	if len(ips) != 1 || ips[0].value != "192.168.0.12" {
		t.Fatalf("expected only the valid dotted quad, got %+v", ips)
	}
}

func TestExtractEntities_CurrencyFamilies(t *testing.T) {
	text := "Subtotal $1,200.00, fee 30.00 EUR, refund (45.00), tip 5 dollars"
	_, amounts, _, _ := extractEntities(text)
	want := map[string]bool{}
	for _, a := range amounts {
		want[a] = true
	}
	for _, expect := range []string{"$1,200.00", "30.00 EUR", "(45.00)", "5 dollars"} {
		if !want[expect] {
			t.Errorf("expected currency amount %q among %v", expect, amounts)
		}
	}
}

func TestExtractEntities_DatesAndDedup(t *testing.T) {
	text := "Issued 12/01/2024, due 12/01/2024, shipped January 5, 2025"
	entities, _, dates, _ := extractEntities(text)
	if len(dates) != 2 {
		t.Fatalf("expected duplicate dates collapsed, got %v", dates)
	}
	if got := findEntities(entities, "date"); len(got) != 2 {
		t.Fatalf("expected 2 date entities after dedup, got %+v", got)
	}
}

func TestExtractEntities_SWIFTLengths(t *testing.T) {
	entities, _, _, _ := extractEntities("BIC DEUTDEFF and DEUTDEFF500 both valid")
	swifts := findEntities(entities, "swift")
	if len(swifts) != 2 {
		t.Fatalf("expected 8- and 11-char SWIFT codes, got %+v", swifts)
	}
}

func TestExtractEntities_PercentagesAndEmails(t *testing.T) {
	entities, _, _, _ := extractEntities("Tax at 8.25% billed to ap@example.com")
	if got := findEntities(entities, "percentage"); len(got) != 1 || got[0].value != "8.25%" {
		t.Fatalf("expected one percentage, got %+v", got)
	}
	if got := findEntities(entities, "email"); len(got) != 1 || got[0].value != "ap@example.com" {
		t.Fatalf("expected one email, got %+v", got)
	}
}
