// ocrd is the OCR service daemon: the HTTP ingress, the scheduler
// loop, and the worker pool in one process. Dispatch is store-atomic,
// so running several ocrd processes against the same database is safe.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/ocr-service/internal/common"
	"github.com/joseph-ayodele/ocr-service/internal/engine"
	"github.com/joseph-ayodele/ocr-service/internal/httpapi"
	"github.com/joseph-ayodele/ocr-service/internal/httpapi/handlers"
	"github.com/joseph-ayodele/ocr-service/internal/notify"
	"github.com/joseph-ayodele/ocr-service/internal/scheduler"
	"github.com/joseph-ayodele/ocr-service/internal/store"
	"github.com/joseph-ayodele/ocr-service/internal/webhook"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Server.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database health OK")

	imageEngine := engine.NewTesseractEngine(engine.Config{
		TesseractPath: cfg.OCR.TesseractPath,
		TessdataDir:   cfg.OCR.TessdataDir,
	}, logger)
	pdfEngine := engine.NewPDFEngine(engine.PDFConfig{
		PdftotextPath:   cfg.OCR.PdftotextPath,
		PdftoppmPath:    cfg.OCR.PdftoppmPath,
		DPI:             cfg.OCR.DPI,
		PageConcurrency: cfg.Jobs.PDFPageConcurrency,
	}, imageEngine, logger)

	sink := webhook.NewSink(logger)

	var publisher *notify.Publisher
	if cfg.Notify.AMQPURL != "" {
		publisher, err = notify.NewPublisher(cfg.Notify.AMQPURL, cfg.Notify.Queue, logger)
		if err != nil {
			// The AMQP channel is additive; the service runs without it.
			logger.Warn("AMQP publisher unavailable, lifecycle events disabled", "error", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	sched := scheduler.New(st, scheduler.EngineRouter{Image: imageEngine, PDF: pdfEngine}, sink, publisher, scheduler.Config{
		MaxConcurrentJobs: cfg.Jobs.MaxConcurrentJobs,
		PollInterval:      cfg.Jobs.PollInterval,
		ProcessingTimeout: cfg.Jobs.ProcessingTimeout,
		DefaultLang:       cfg.OCR.DefaultLang,
		AppDomain:         cfg.Server.AppDomain,
	}, logger)

	schedDone := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(schedDone)
	}()

	h := handlers.NewHandler(st, cfg.Server.AppDomain, cfg.Jobs.StuckJobAfter, logger)
	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           httpapi.NewRouter(h, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	// The scheduler stops claiming on ctx cancellation and drains its
	// in-flight workers, each bounded by PROCESSING_TIMEOUT.
	<-schedDone
	logger.Info("stopped")
}
