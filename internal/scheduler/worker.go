package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/enricher"
	"github.com/joseph-ayodele/ocr-service/internal/model"
	"github.com/joseph-ayodele/ocr-service/internal/notify"
	"github.com/joseph-ayodele/ocr-service/internal/store"
	"github.com/joseph-ayodele/ocr-service/internal/validator"
	"github.com/joseph-ayodele/ocr-service/internal/webhook"
)

// runWorker is the worker task for one claimed job: re-validate,
// OCR under a hard timeout, enrich, finalize, and best-effort notify.
// Every error from re-validation, OCR, or enrichment is converted to
// a FAILED finalize rather than propagated; only a Store error
// escapes, and the job then stays PROCESSING until the stuck detector
// flags it.
func (s *Scheduler) runWorker(ctx context.Context, job *store.Job) {
	start := time.Now()
	logger := s.logger.With(logFields(job.ID)...)
	logger.Info("worker started", "file_name", job.FileName, "mime_type", job.MimeType)

	// Step 1: re-validate (defense in depth).
	outcome, err := validator.Validate(job.FileData, job.MimeType)
	if err != nil {
		s.fail(ctx, logger, job, "File validation failed: "+appErrMessage(err))
		return
	}

	// Step 2: OCR under the hard processing timeout.
	ocrCtx, cancel := context.WithTimeout(ctx, s.cfg.ProcessingTimeout)
	tree, err := s.engines.For(outcome.DetectedMime).Recognize(ocrCtx, outcome.Sanitized, s.cfg.DefaultLang)
	cancel()
	if err != nil {
		if errors.Is(ocrCtx.Err(), context.DeadlineExceeded) {
			s.fail(ctx, logger, job, "Processing timeout exceeded")
		} else {
			s.fail(ctx, logger, job, "Engine error: "+appErrMessage(err))
		}
		return
	}

	// Step 3: enrich the block tree into the Result and serialize it.
	result := enricher.Enrich(tree, time.Since(start))
	serialized, err := serializeResult(result)
	if err != nil {
		s.fail(ctx, logger, job, "Failed to serialize OCR result: "+err.Error())
		return
	}

	// Step 4: finalize COMPLETED.
	now := time.Now().UTC()
	if err := s.store.Finalize(ctx, job.ID, constants.JobStatusCompleted, &serialized, nil, now); err != nil {
		// Store errors propagate: the iteration is abandoned and the
		// job remains PROCESSING until the stuck detector flags it.
		logger.Error("finalize COMPLETED failed", "error", err)
		return
	}
	logger.Info("worker completed", "duration_ms", time.Since(start).Milliseconds(),
		"word_count", result.Metadata.WordCount, "confidence", result.Confidence)

	s.notifyEvent(ctx, job.ID, string(constants.JobStatusCompleted))

	// Step 5: webhook, never allowed to affect job state.
	if job.CallbackWebhook != nil && *job.CallbackWebhook != "" && s.webhook != nil {
		s.webhook.Send(ctx, *job.CallbackWebhook, webhook.Payload{
			JobID:     job.ID,
			Email:     job.Email,
			OCRResult: serialized,
			StatusURL: s.cfg.AppDomain + "/job/" + job.ID,
			Timestamp: now.Format(time.RFC3339),
		})
	}
}

// fail finalizes the job FAILED with msg. A zero-row Finalize (the job
// was deleted mid-flight by an admin) is tolerated silently by the
// Store implementation, not surfaced here.
func (s *Scheduler) fail(ctx context.Context, logger interface {
	Error(string, ...any)
	Warn(string, ...any)
}, job *store.Job, msg string) {
	now := time.Now().UTC()
	if err := s.store.Finalize(ctx, job.ID, constants.JobStatusFailed, nil, &msg, now); err != nil {
		logger.Error("finalize FAILED failed", "error", err)
		return
	}
	logger.Warn("worker failed job", "reason", msg)
	s.notifyEvent(ctx, job.ID, string(constants.JobStatusFailed))
}

// notifyEvent best-effort publishes the optional AMQP lifecycle
// event. A nil Publisher makes this a no-op.
func (s *Scheduler) notifyEvent(ctx context.Context, jobID, status string) {
	if s.notify == nil {
		return
	}
	s.notify.Publish(ctx, notify.Event{
		JobID: jobID, Status: status, Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// serializeResult marshals the Result with stable key order (struct
// field order drives encoding/json's output deterministically) so
// repeated enrich+serialize of the same input is byte-for-byte
// reproducible.
func serializeResult(r model.Result) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
