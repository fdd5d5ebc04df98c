package common

import (
	"log/slog"
	"os"
)

// maxLoggedValueLen bounds string attribute values so a serialized
// Result or a long error chain never floods a log line.
const maxLoggedValueLen = 2048

// NewLogger builds the process-wide logger: JSON by default, text when
// format is "text". File bytes are redacted and long string values
// truncated before they reach the handler.
func NewLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: sanitizeAttr,
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func sanitizeAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case "file_data", "fileData":
		return slog.String(a.Key, "[redacted]")
	}
	if a.Value.Kind() == slog.KindString {
		if s := a.Value.String(); len(s) > maxLoggedValueLen {
			return slog.String(a.Key, s[:maxLoggedValueLen]+"...(truncated)")
		}
	}
	return a
}
