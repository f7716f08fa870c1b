package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/localboost-backend/internal/domain"
	"github.com/heartmarshall/localboost-backend/internal/service/schedule"
	"github.com/heartmarshall/localboost-backend/pkg/ctxutil"
)

// scheduleService defines the minimal interface needed by ScheduleHandler.
type scheduleService interface {
	DispatchClient(ctx context.Context, clientID uuid.UUID) (*domain.ClientDispatchResult, error)
	GetClient(ctx context.Context, clientID uuid.UUID) (*domain.Client, error)
	Status(ctx context.Context, clientID uuid.UUID) (*domain.RotationStatus, error)
	Capacity(ctx context.Context) (*domain.CapacityReport, error)
	UpdateAutoSchedule(ctx context.Context, clientID uuid.UUID, input schedule.UpdateAutoScheduleInput) (*domain.Client, error)
	ListRunLogs(ctx context.Context, filter domain.RunLogFilter) ([]*domain.RunLogEntry, error)
}

// ScheduleHandler serves the admin scheduling endpoints.
type ScheduleHandler struct {
	svc scheduleService
	log *slog.Logger
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(svc scheduleService, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, log: logger.With("handler", "schedule")}
}

// scheduleProjection is the client's grid assignment as the dashboard shows it.
type scheduleProjection struct {
	Enabled             bool       `json:"enabled"`
	Frequency           int        `json:"frequency"`
	DayPair             *string    `json:"dayPair,omitempty"`
	DayPairLabel        string     `json:"dayPairLabel,omitempty"`
	TimeSlot            *int       `json:"timeSlot,omitempty"`
	TimeSlotLabel       string     `json:"timeSlotLabel,omitempty"`
	RotationCycle       int        `json:"rotationCycle"`
	LastAutoScheduledAt *time.Time `json:"lastAutoScheduledAt,omitempty"`
}

type statusResponse struct {
	ClientID string                 `json:"clientId"`
	Rotation *domain.RotationStatus `json:"rotation"`
	Schedule scheduleProjection     `json:"schedule"`
}

type autoScheduleRequest struct {
	Enabled   bool `json:"enabled"`
	Frequency int  `json:"frequency"`
}

type autoScheduleResponse struct {
	ClientID string             `json:"clientId"`
	Schedule scheduleProjection `json:"schedule"`
}

type runLogResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"clientId"`
	Action     string          `json:"action"`
	Success    bool            `json:"success"`
	Processed  int             `json:"processed"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	DurationMs int64           `json:"durationMs"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Dispatch handles POST /admin/schedule/clients/{id}/dispatch.
// Manual trigger: bypasses the day/hour gates and fires one post now.
func (h *ScheduleHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	clientID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	result, err := h.svc.DispatchClient(r.Context(), clientID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Status handles GET /admin/schedule/clients/{id}/status.
// Returns the rotation queue projection together with the grid assignment.
func (h *ScheduleHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	clientID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	c, err := h.svc.GetClient(r.Context(), clientID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	rotation, err := h.svc.Status(r.Context(), clientID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		ClientID: clientID.String(),
		Rotation: rotation,
		Schedule: toScheduleProjection(c),
	})
}

// Capacity handles GET /admin/schedule/capacity.
func (h *ScheduleHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	report, err := h.svc.Capacity(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// UpdateAutoSchedule handles PATCH /admin/clients/{id}/auto-schedule.
func (h *ScheduleHandler) UpdateAutoSchedule(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	clientID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req autoScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.svc.UpdateAutoSchedule(r.Context(), clientID, schedule.UpdateAutoScheduleInput{
		Enabled:   req.Enabled,
		Frequency: req.Frequency,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, autoScheduleResponse{
		ClientID: c.ID.String(),
		Schedule: toScheduleProjection(c),
	})
}

// RunLogs handles GET /admin/schedule/runs?clientId=&action=&limit=&offset=.
func (h *ScheduleHandler) RunLogs(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	filter := domain.RunLogFilter{Limit: 50}

	if v := r.URL.Query().Get("clientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid clientId")
			return
		}
		filter.ClientID = &id
	}
	if v := r.URL.Query().Get("action"); v != "" {
		filter.Action = &v
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	entries, err := h.svc.ListRunLogs(r.Context(), filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]runLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, runLogResponse{
			ID:         e.ID.String(),
			ClientID:   e.ClientID.String(),
			Action:     e.Action,
			Success:    e.Success,
			Processed:  e.Processed,
			Succeeded:  e.Succeeded,
			Failed:     e.Failed,
			DurationMs: e.DurationMs,
			Details:    json.RawMessage(e.Details),
			CreatedAt:  e.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *ScheduleHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !ctxutil.IsAdminCtx(r.Context()) {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}

func (h *ScheduleHandler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid client id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ScheduleHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, schedule.ErrNoActiveQuestions), errors.Is(err, schedule.ErrNoLocations):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toScheduleProjection(c *domain.Client) scheduleProjection {
	p := scheduleProjection{
		Enabled:             c.AutoScheduleEnabled,
		Frequency:           c.AutoScheduleFrequency,
		RotationCycle:       c.RotationCycle,
		LastAutoScheduledAt: c.LastAutoScheduledAt,
	}
	if c.ScheduleDayPair != nil {
		key := string(*c.ScheduleDayPair)
		p.DayPair = &key
		if pair, ok := domain.DayPairByKey(*c.ScheduleDayPair); ok {
			p.DayPairLabel = pair.Label
		}
	}
	if c.ScheduleTimeSlot != nil {
		slot := *c.ScheduleTimeSlot
		p.TimeSlot = &slot
		if label, ok := domain.TimeSlotHour(slot); ok {
			p.TimeSlotLabel = label
		}
	}
	return p
}
