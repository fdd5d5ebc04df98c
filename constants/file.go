package constants

import "strings"

// SourceType distinguishes the two OCR entry paths.
type SourceType string

const (
	SourceImage SourceType = "IMAGE"
	SourcePDF   SourceType = "PDF"
)

// Recognized MIME types per the validator's magic-number allow-list.
const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeTIFF = "image/tiff"
	MimeBMP  = "image/bmp"
	MimeWebP = "image/webp"
	MimePDF  = "application/pdf"
)

// RecognizedMimeTypes is the validator's MIME allow-list.
var RecognizedMimeTypes = map[string]struct{}{
	MimePNG:  {},
	MimeJPEG: {},
	MimeTIFF: {},
	MimeBMP:  {},
	MimeWebP: {},
	MimePDF:  {},
}

// mimeAliases normalizes client-claimed MIME strings that are common
// synonyms for a recognized type (e.g. "image/jpg" -> "image/jpeg").
var mimeAliases = map[string]string{
	"image/jpg": MimeJPEG,
	"image/tif": MimeTIFF,
}

// NormalizeMime canonicalizes a claimed MIME string for comparison
// against a detected MIME string.
func NormalizeMime(claimed string) string {
	c := strings.ToLower(strings.TrimSpace(claimed))
	if alias, ok := mimeAliases[c]; ok {
		return alias
	}
	return c
}

// SourceTypeForMime maps a recognized MIME type to its OCR source type.
func SourceTypeForMime(mime string) SourceType {
	if mime == MimePDF {
		return SourcePDF
	}
	return SourceImage
}
