package constants

// Validator bounds.
const (
	// MaxFileSize is the upload size gate: 50 MiB.
	MaxFileSize int64 = 50 * 1024 * 1024

	// MaxImagePixels is the decoded-pixel ceiling enforced during
	// parsing and again against width*height.
	MaxImagePixels int64 = 178_956_970

	// MaxImageDim bounds width and height independently.
	MaxImageDim = 50_000

	// ThumbnailSide is the trial-transform thumbnail used to confirm
	// an image decodes end-to-end.
	ThumbnailSide = 100

	// MinPDFPages and MaxPDFPages bound PDF page counts.
	MinPDFPages = 1
	MaxPDFPages = 500

	// PDFScanWindow is the number of leading bytes scanned for
	// active-content tokens.
	PDFScanWindow = 1 << 20
)

// PDF tokens scanned for; presence is logged, never fatal.
var PDFActiveContentTokens = []string{"/JavaScript", "/JS", "/OpenAction", "/AA"}

// SSRF-blocked literal hostnames (deliberately not
// the whole 127.0.0.0/8 loopback block).
var SSRFBlockedHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
	"::1":       {},
}

// SSRFBlockedCIDRs are the RFC1918 + link-local ranges blocked at the
// literal-IP level.
var SSRFBlockedCIDRs = []string{
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
}
