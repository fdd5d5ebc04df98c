package validator

import (
	"bytes"
	"regexp"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/common"
)

// rePageObject matches a page dictionary's /Type /Page entry without
// matching the page-tree root's /Type /Pages (note the negative
// lookahead is unavailable in RE2, so the trailing byte is asserted
// explicitly not to be 's').
var rePageObject = regexp.MustCompile(`/Type\s*/Page[^s\w]`)

// reEncrypt matches the trailer's /Encrypt reference, present iff the
// document carries a security handler.
var reEncrypt = regexp.MustCompile(`/Encrypt\b`)

// validatePDF inspects structure with byte-level scanning rather
// than an object-graph parse. pageCount is a count of distinct page
// objects, an approximation adequate for the 1..500 bound check; it
// is not a full page-tree walk.
func validatePDF(data []byte) ([]string, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, common.NewAppError(common.CodeMalformedImage, "not a well-formed PDF header", common.ErrInvalidInput)
	}

	if reEncrypt.Match(data) {
		return nil, common.NewAppError(common.CodeEncryptedPDF, "encrypted PDFs are rejected", common.ErrInvalidInput)
	}

	pageCount := len(rePageObject.FindAllIndex(data, -1))
	// A PDF with no trailing byte after the last "/Page" in the buffer
	// (EOF immediately following) is missed by the character-class
	// boundary; fall back to a second pass that also accepts end of
	// input as the terminator.
	if pageCount == 0 {
		pageCount = len(regexp.MustCompile(`/Type\s*/Page(?:[^s\w]|$)`).FindAllIndex(data, -1))
	}
	if pageCount < constants.MinPDFPages || pageCount > constants.MaxPDFPages {
		return nil, common.NewAppError(common.CodeInvalidPageCount,
			"PDF page count out of bounds (1-500)", common.ErrInvalidInput)
	}

	window := data
	if len(window) > constants.PDFScanWindow {
		window = window[:constants.PDFScanWindow]
	}
	var warnings []string
	for _, tok := range constants.PDFActiveContentTokens {
		if bytes.Contains(window, []byte(tok)) {
			// Logged, never fatal: embedded active content
			// is permitted to pass validation with a warning.
			warnings = append(warnings, "PDF contains active-content token "+tok)
		}
	}
	return warnings, nil
}
