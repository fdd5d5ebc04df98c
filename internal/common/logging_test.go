package common

import (
	"log/slog"
	"strings"
	"testing"
)

func TestSanitizeAttr_RedactsFileData(t *testing.T) {
	a := sanitizeAttr(nil, slog.String("file_data", "raw bytes here"))
	if a.Value.String() != "[redacted]" {
		t.Fatalf("expected file_data redacted, got %q", a.Value.String())
	}
}

func TestSanitizeAttr_TruncatesLongStrings(t *testing.T) {
	long := strings.Repeat("x", maxLoggedValueLen+100)
	a := sanitizeAttr(nil, slog.String("ocr_result", long))
	got := a.Value.String()
	if len(got) >= len(long) {
		t.Fatalf("expected truncation, got %d chars", len(got))
	}
	if !strings.HasSuffix(got, "...(truncated)") {
		t.Fatalf("expected truncation marker, got tail %q", got[len(got)-20:])
	}
}

func TestSanitizeAttr_LeavesShortValuesAlone(t *testing.T) {
	a := sanitizeAttr(nil, slog.String("job_id", "abc"))
	if a.Value.String() != "abc" {
		t.Fatalf("short values must pass through, got %q", a.Value.String())
	}
}
