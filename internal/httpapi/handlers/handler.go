// Package handlers implements the HTTP surface as thin adapters over
// internal/store and internal/validator: one Handler struct holding
// shared dependencies, constructed once by the router.
package handlers

import (
	"log/slog"
	"time"

	"github.com/joseph-ayodele/ocr-service/internal/store"
)

// Handler holds the dependencies every route needs: the Store (the
// sole source of truth) and the knobs used to render derived admin
// fields.
type Handler struct {
	Store       store.Store
	AppDomain   string
	StuckAfter  time.Duration
	Logger      *slog.Logger
}

func NewHandler(st store.Store, appDomain string, stuckAfter time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Store: st, AppDomain: appDomain, StuckAfter: stuckAfter, Logger: logger}
}
