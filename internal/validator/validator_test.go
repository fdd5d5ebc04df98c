package validator

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/common"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// minimalPDF builds a syntactically plausible one-page PDF carrying
// the given extra dictionary content in its catalog.
func minimalPDF(extra string) []byte {
	return []byte("%PDF-1.4\n" +
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R " + extra + " >>\nendobj\n" +
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n" +
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n" +
		"trailer\n<< /Root 1 0 R >>\n%%EOF\n")
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var ae *common.AppError
	if !errors.As(err, &ae) {
		t.Fatalf("expected an AppError, got %v", err)
	}
	return ae.Code
}

func TestValidate_AcceptsPNG(t *testing.T) {
	out, err := Validate(encodePNG(t, 400, 200), "image/png")
	if err != nil {
		t.Fatalf("expected valid PNG to pass, got %v", err)
	}
	if out.DetectedMime != constants.MimePNG {
		t.Fatalf("expected detected mime image/png, got %s", out.DetectedMime)
	}
	if len(out.Sanitized) == 0 {
		t.Fatalf("expected sanitized bytes to be returned")
	}
}

func TestValidate_SizeGateRejectsOversize(t *testing.T) {
	data := make([]byte, constants.MaxFileSize+1)
	_, err := Validate(data, "image/png")
	if got := appCode(t, err); got != common.CodeFileTooLarge {
		t.Fatalf("expected FILE_TOO_LARGE, got %s", got)
	}
}

func TestValidate_SizeGateAllowsExactLimit(t *testing.T) {
	// Exactly at the limit passes the gate; failure, if any, must come
	// from a later step, never FILE_TOO_LARGE.
	data := make([]byte, constants.MaxFileSize)
	_, err := Validate(data, "")
	if err == nil {
		t.Fatalf("expected zero-filled buffer to fail typing")
	}
	if got := appCode(t, err); got == common.CodeFileTooLarge {
		t.Fatalf("a buffer at exactly the limit must not be FILE_TOO_LARGE")
	}
}

func TestValidate_UndetectableBytes(t *testing.T) {
	// Plain text bytes under a claimed image type.
	_, err := Validate([]byte("This is not an image at all"), "image/png")
	if err == nil {
		t.Fatalf("expected failure")
	}
	if got := appCode(t, err); got != common.CodeUnknownType {
		t.Fatalf("expected UNKNOWN_TYPE, got %s", got)
	}
	if !strings.Contains(err.Error(), "detect file type") {
		t.Fatalf("expected message to mention detecting the file type, got %q", err.Error())
	}
}

func TestValidate_ClaimDetectMismatch(t *testing.T) {
	_, err := Validate(encodePNG(t, 10, 10), "image/jpeg")
	if got := appCode(t, err); got != common.CodeTypeMismatch {
		t.Fatalf("expected TYPE_MISMATCH, got %s", got)
	}
}

func TestValidate_NormalizesClaimedAliases(t *testing.T) {
	// image/jpg is a synonym of image/jpeg.
	if _, err := Validate(encodeJPEG(t, 10, 10), "image/jpg"); err != nil {
		t.Fatalf("expected image/jpg alias to be accepted for a real JPEG, got %v", err)
	}
}

func TestValidate_EmptyClaimSkipsMismatchCheck(t *testing.T) {
	if _, err := Validate(encodePNG(t, 10, 10), ""); err != nil {
		t.Fatalf("expected empty claimed mime to validate on detection alone, got %v", err)
	}
}

func TestValidate_MalformedImage(t *testing.T) {
	// A valid PNG signature followed by garbage: typed as PNG, fails
	// the metadata read.
	data := append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, []byte("garbage body")...)
	_, err := Validate(data, "image/png")
	if got := appCode(t, err); got != common.CodeMalformedImage {
		t.Fatalf("expected MALFORMED_IMAGE, got %s", got)
	}
}

func TestValidate_PDFAccepted(t *testing.T) {
	out, err := Validate(minimalPDF(""), "application/pdf")
	if err != nil {
		t.Fatalf("expected minimal PDF to pass, got %v", err)
	}
	if out.DetectedMime != constants.MimePDF {
		t.Fatalf("expected application/pdf, got %s", out.DetectedMime)
	}
	if len(out.Warnings) != 0 {
		t.Fatalf("expected no warnings for a plain PDF, got %v", out.Warnings)
	}
}

func TestValidate_EncryptedPDFRejected(t *testing.T) {
	_, err := Validate(minimalPDF("/Encrypt 9 0 R"), "application/pdf")
	if got := appCode(t, err); got != common.CodeEncryptedPDF {
		t.Fatalf("expected ENCRYPTED_PDF, got %s", got)
	}
}

func TestValidate_PDFJavaScriptWarnsButPasses(t *testing.T) {
	out, err := Validate(minimalPDF("/OpenAction << /S /JavaScript /JS (app.alert\\(1\\)) >>"), "application/pdf")
	if err != nil {
		t.Fatalf("PDFs with active content pass with a warning, got error %v", err)
	}
	if len(out.Warnings) == 0 {
		t.Fatalf("expected active-content warnings")
	}
}

func TestValidate_PDFWithoutPagesRejected(t *testing.T) {
	noPages := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	_, err := Validate(noPages, "application/pdf")
	if got := appCode(t, err); got != common.CodeInvalidPageCount {
		t.Fatalf("expected INVALID_PAGE_COUNT, got %s", got)
	}
}
