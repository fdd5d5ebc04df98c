// Package validator implements the file validation gate: a pure,
// single-threaded function of bytes + claimed MIME that never performs
// network I/O. It is invoked twice per job, once at ingress and once
// by the worker as defense in depth.
package validator

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/common"
)

// Outcome is the result of Validate: either ok with the detected
// MIME and sanitized bytes, or a typed AppError.
type Outcome struct {
	OK            bool
	DetectedMime  string
	Sanitized     []byte
	Warnings      []string
}

// Validate runs the gate checks in order; the first failure wins.
func Validate(data []byte, claimedMime string) (Outcome, error) {
	// 1. Size gate.
	if int64(len(data)) > constants.MaxFileSize {
		return Outcome{}, common.NewAppError(common.CodeFileTooLarge,
			"file exceeds the 50 MiB limit", common.ErrInvalidInput)
	}

	// 2. Magic-number typing.
	detected := mimetype.Detect(data)
	detectedMime := detected.String()
	// mimetype appends a charset parameter for some text types; the
	// recognized set here is all binary, so strip any parameter.
	if idx := strings.IndexByte(detectedMime, ';'); idx >= 0 {
		detectedMime = strings.TrimSpace(detectedMime[:idx])
	}
	// mimetype falls back to "text/plain" or "application/octet-stream"
	// when no specific signature matches the content. That fallback is
	// this gate's "undetectable" case, distinct from detecting a real,
	// named format that simply isn't in the allow-list: bytes matching
	// no known signature must read as "unable to detect file type",
	// not as an unsupported-but-named type.
	if detectedMime == "" || detectedMime == "text/plain" || detectedMime == "application/octet-stream" {
		return Outcome{}, common.NewAppError(common.CodeUnknownType,
			"unable to detect file type", common.ErrInvalidInput)
	}

	// 3. Allow-list.
	if _, ok := constants.RecognizedMimeTypes[detectedMime]; !ok {
		return Outcome{}, common.NewAppError(common.CodeUnsupportedType,
			"detected file type "+detectedMime+" is not supported", common.ErrInvalidInput)
	}

	// 4. Claim/detect consistency.
	normalizedClaim := constants.NormalizeMime(claimedMime)
	if normalizedClaim != "" && normalizedClaim != detectedMime {
		return Outcome{}, common.NewAppError(common.CodeTypeMismatch,
			"claimed type mismatch: claimed "+claimedMime+" but detected "+detectedMime, common.ErrInvalidInput)
	}

	// 5. Type-specific checks.
	var warnings []string
	if detectedMime == constants.MimePDF {
		w, err := validatePDF(data)
		if err != nil {
			return Outcome{}, err
		}
		warnings = w
	} else {
		if err := validateImage(data, detectedMime); err != nil {
			return Outcome{}, err
		}
	}

	return Outcome{OK: true, DetectedMime: detectedMime, Sanitized: data, Warnings: warnings}, nil
}
