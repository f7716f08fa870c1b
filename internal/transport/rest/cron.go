package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// dispatchService defines the minimal interface needed by CronHandler.
type dispatchService interface {
	RunTick(ctx context.Context) (*domain.DispatchSummary, error)
}

// CronHandler serves the hourly dispatch trigger. Authentication happens in
// the CronSecret middleware, not here.
type CronHandler struct {
	svc     dispatchService
	timeout time.Duration
	log     *slog.Logger
}

// NewCronHandler creates a CronHandler. timeout bounds one whole batch;
// zero means no bound beyond the request context.
func NewCronHandler(svc dispatchService, timeout time.Duration, logger *slog.Logger) *CronHandler {
	return &CronHandler{
		svc:     svc,
		timeout: timeout,
		log:     logger.With("handler", "cron"),
	}
}

// Dispatch handles POST /cron/dispatch. Runs the hourly tick synchronously
// and returns the batch summary. Per-client failures do not fail the request;
// only a batch-level error (the due query) does.
func (h *CronHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	summary, err := h.svc.RunTick(ctx)
	if err != nil {
		h.log.ErrorContext(r.Context(), "dispatch tick failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "dispatch failed")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
