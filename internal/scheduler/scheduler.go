// Package scheduler implements the scheduling loop and worker pool:
// a bounded set of in-flight worker tasks fed by the store's atomic
// claim primitive. The store is the queue; there is no
// in-memory priority structure.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/common"
	"github.com/joseph-ayodele/ocr-service/internal/engine"
	"github.com/joseph-ayodele/ocr-service/internal/notify"
	"github.com/joseph-ayodele/ocr-service/internal/store"
	"github.com/joseph-ayodele/ocr-service/internal/webhook"
)

// backoffWhenBusy is not referenced by loop: when the in-flight set is
// already at MaxConcurrentJobs, loop blocks on the inflight semaphore
// until a running worker releases its slot.
const backoffWhenBusy = 500 * time.Millisecond

// claimErrBackoff bounds how long the loop waits after a store error
// before retrying a claim, so a transient DB outage degrades to slow
// polling rather than a tight error loop.
const claimErrBackoff = 2 * time.Second

// Config governs pool sizing and timeouts.
type Config struct {
	MaxConcurrentJobs int
	PollInterval      time.Duration
	ProcessingTimeout time.Duration
	DefaultLang       string
	AppDomain         string
}

// EngineRouter selects the opaque OCR engine for a job's detected MIME
// type: raster formats go to the image engine, PDFs to
// the PDF engine, each already satisfying engine.Engine.
type EngineRouter struct {
	Image engine.Engine
	PDF   engine.Engine
}

func (r EngineRouter) For(mimeType string) engine.Engine {
	if constants.SourceTypeForMime(mimeType) == constants.SourcePDF {
		return r.PDF
	}
	return r.Image
}

// Scheduler runs the claim/spawn loop against a Store and
// dispatches claimed jobs to worker tasks. Safe to run as one of many
// competing processes since ClaimOldestPending is store-atomic.
type Scheduler struct {
	store   store.Store
	engines EngineRouter
	webhook *webhook.Sink
	notify  *notify.Publisher
	cfg     Config
	logger  *slog.Logger

	inflight chan struct{}
	wg       sync.WaitGroup
}

func New(st store.Store, engines EngineRouter, sink *webhook.Sink, pub *notify.Publisher, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 3
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.ProcessingTimeout <= 0 {
		cfg.ProcessingTimeout = 5 * time.Minute
	}
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = "eng"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store: st, engines: engines, webhook: sink, notify: pub, cfg: cfg, logger: logger,
		inflight: make(chan struct{}, cfg.MaxConcurrentJobs),
	}
}

// Run executes the claim loop until ctx is cancelled. On cancellation
// it stops claiming new work and waits for in-flight workers to finish
// (each bounded by its own processing timeout) before returning.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler starting", "max_concurrent_jobs", s.cfg.MaxConcurrentJobs,
		"poll_interval", s.cfg.PollInterval, "processing_timeout", s.cfg.ProcessingTimeout)

	done := make(chan struct{})
	go func() {
		s.loop(ctx)
		close(done)
	}()

	<-ctx.Done()
	s.logger.Info("scheduler stopping, no new claims; draining in-flight workers")
	<-done
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s.inflight <- struct{}{}:
		}

		job, err := s.store.ClaimOldestPending(ctx)
		if err != nil {
			<-s.inflight
			s.logger.Error("claim failed, backing off", "error", err)
			if !sleepOrDone(ctx, claimErrBackoff) {
				return
			}
			continue
		}
		if job == nil {
			<-s.inflight
			if !sleepOrDone(ctx, s.cfg.PollInterval) {
				return
			}
			continue
		}

		s.wg.Add(1)
		go func(j *store.Job) {
			defer s.wg.Done()
			defer func() { <-s.inflight }()
			s.runWorker(context.WithoutCancel(ctx), j)
		}(job)
	}
}

// sleepOrDone waits for d or ctx cancellation, returning false iff
// ctx was cancelled first.
func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// logFields returns the consistent job_id/component fields every
// scheduler log line carries.
func logFields(jobID string) []any {
	return []any{"job_id", jobID, "component", "scheduler"}
}

// appErrMessage extracts the human-readable message from err,
// preferring an AppError's Message over its full Error() string so
// job.errorMessage reads as a sentence, not a wrapped error chain.
func appErrMessage(err error) string {
	var ae *common.AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
