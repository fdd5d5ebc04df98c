// Package webhook delivers job-completion callbacks. Delivery
// is fire-and-forget: a failed or non-2xx response is logged and
// swallowed, never retried, never surfaced to the job itself.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Payload is the JSON body posted to a job's callback URL on
// completion: jobId, email, the serialized Result string,
// a statusUrl the recipient can poll, and an ISO-8601 UTC timestamp.
type Payload struct {
	JobID     string `json:"jobId"`
	Email     string `json:"email"`
	OCRResult string `json:"ocrResult,omitempty"`
	StatusURL string `json:"statusUrl"`
	Timestamp string `json:"timestamp"`
}

// Sink posts Payloads to caller-validated URLs, logging a request id
// and elapsed time for every attempt.
type Sink struct {
	client *http.Client
	logger *slog.Logger
}

const defaultTimeout = 30 * time.Second

func NewSink(logger *slog.Logger) *Sink {
	return &Sink{client: &http.Client{Timeout: defaultTimeout}, logger: logger}
}

// Send POSTs payload to url. The caller must have already validated
// url with internal/validator.ValidateWebhookURL; Send performs no
// SSRF checks of its own and never re-resolves the host.
// All failures are logged at Warn and swallowed; Send never returns
// an error to keep worker completion independent of webhook delivery.
func (s *Sink) Send(ctx context.Context, url string, payload Payload) {
	reqID := uuid.NewString()
	start := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("webhook encode failed", "req_id", reqID, "job_id", payload.JobID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		s.logger.Error("webhook build request failed", "req_id", reqID, "job_id", payload.JobID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "OCR-API/1.0")

	s.logger.Info("webhook request", "req_id", reqID, "job_id", payload.JobID, "url", url)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("webhook delivery failed", "req_id", reqID, "job_id", payload.JobID,
			"error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			s.logger.Warn("webhook response body close failed", "req_id", reqID, "error", err)
		}
	}(resp.Body)
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		s.logger.Warn("webhook non-2xx response", "req_id", reqID, "job_id", payload.JobID,
			"status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds())
		return
	}
	s.logger.Info("webhook delivered", "req_id", reqID, "job_id", payload.JobID,
		"status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds())
}
