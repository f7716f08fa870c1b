package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// RunTick runs one hourly dispatch pass.
//
// The current UTC hour is mapped to a slot index; hours outside the slot
// grid produce an empty summary and no run log entry. Due clients are
// processed strictly sequentially with a configurable delay between them to
// spread pipeline load. One run log entry is written per tick that processed
// at least one client.
func (s *Service) RunTick(ctx context.Context) (*domain.DispatchSummary, error) {
	start := s.clock.Now()
	now := start.UTC()

	slotIndex, ok := domain.TimeSlotByHour(now.Hour())
	if !ok {
		s.log.Info("tick outside slot grid, nothing to do", "hour", now.Hour())
		return &domain.DispatchSummary{
			Success:   true,
			TimeSlot:  fmt.Sprintf("%02d:00", now.Hour()),
			SlotIndex: -1,
			Day:       now.Weekday().String(),
			Results:   []domain.ClientDispatchResult{},
		}, nil
	}
	slotHour, _ := domain.TimeSlotHour(slotIndex)

	due, err := s.clients.ListDue(ctx, slotIndex)
	if err != nil {
		s.recordBatchFailure(ctx, err)
		return nil, fmt.Errorf("run tick: %w", err)
	}

	weekday := now.Weekday()
	results := make([]domain.ClientDispatchResult, 0, len(due))
	for _, c := range due {
		if !c.DueOn(weekday) {
			continue
		}
		if firedThisHour(c, now) {
			s.log.Warn("client already dispatched this hour, skipping",
				"client_id", c.ID,
				"last_auto_scheduled_at", c.LastAutoScheduledAt,
			)
			continue
		}
		if len(results) > 0 && s.cfg.InterClientDelay > 0 {
			s.clock.Sleep(s.cfg.InterClientDelay)
		}
		results = append(results, s.dispatchOne(ctx, c, now))
	}

	summary := &domain.DispatchSummary{
		TimeSlot:   slotHour,
		SlotIndex:  slotIndex,
		Day:        weekday.String(),
		Processed:  len(results),
		Results:    results,
		DurationMs: s.clock.Since(start).Milliseconds(),
	}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	summary.Success = summary.Failed == 0

	s.log.Info("tick finished",
		"time_slot", slotHour,
		"processed", summary.Processed,
		"successful", summary.Successful,
		"failed", summary.Failed,
		"duration_ms", summary.DurationMs,
	)

	// No-op ticks leave no trace; the run log records work, not wakeups.
	if summary.Processed > 0 {
		s.writeRunLog(ctx, domain.RunLogActionAutoSchedule, results[0].ClientID, summary)
	}

	return summary, nil
}

// DispatchClient runs the per-client dispatch sequence for one client on
// demand, outside the hourly loop. The schedule gates (due day, slot hour,
// double-fire guard) deliberately do not apply.
func (s *Service) DispatchClient(ctx context.Context, clientID uuid.UUID) (*domain.ClientDispatchResult, error) {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("dispatch client: %w", err)
	}

	start := s.clock.Now()
	res := s.dispatchOne(ctx, c, start.UTC())

	summary := &domain.DispatchSummary{
		Success:    res.Success,
		Processed:  1,
		Results:    []domain.ClientDispatchResult{res},
		DurationMs: s.clock.Since(start).Milliseconds(),
	}
	if res.Success {
		summary.Successful = 1
	} else {
		summary.Failed = 1
	}
	s.writeRunLog(ctx, domain.RunLogActionManualDispatch, c.ID, summary)

	return &res, nil
}

// dispatchOne runs the full per-client sequence: select a pairing, create
// the content item, advance rotation state, trigger the pipeline.
//
// Rotation state advances before the pipeline call: a failed generation
// still consumes the pairing, so selection order is preserved across
// retries.
func (s *Service) dispatchOne(ctx context.Context, c *domain.Client, now time.Time) domain.ClientDispatchResult {
	res := domain.ClientDispatchResult{ClientID: c.ID, ClientName: c.Name}

	sel, err := s.SelectNext(ctx, c.ID)
	if err != nil {
		s.log.Error("selection failed", "client_id", c.ID, "error", err)
		res.Error = err.Error()
		return res
	}
	res.Question = sel.Rendered
	res.Location = sel.Location.DisplayName()
	res.Recycled = sel.Recycled

	item, err := s.content.Create(ctx, &domain.ContentItem{
		ClientID:         c.ID,
		QuestionID:       sel.Question.ID,
		LocationID:       sel.Location.ID,
		RenderedQuestion: sel.Rendered,
		ScheduledFor:     now,
		Status:           domain.ContentStatusGenerating,
	})
	if err != nil {
		s.log.Error("content item creation failed", "client_id", c.ID, "error", err)
		res.Error = err.Error()
		return res
	}
	res.ContentItemID = &item.ID

	if err := s.MarkUsed(ctx, c.ID, sel.Question.ID, sel.Location.ID); err != nil {
		s.log.Error("rotation advance failed", "client_id", c.ID, "error", err)
		s.failContent(ctx, item.ID, err)
		res.Error = err.Error()
		return res
	}

	if err := s.clients.TouchLastAutoScheduled(ctx, c.ID, now); err != nil {
		// Guard stamp only; the dispatch itself already happened.
		s.log.Warn("failed to stamp last_auto_scheduled_at", "client_id", c.ID, "error", err)
	}

	if err := s.pipeline.Run(ctx, item.ID); err != nil {
		s.log.Error("pipeline run failed",
			"client_id", c.ID,
			"content_item_id", item.ID,
			"error", err,
		)
		s.failContent(ctx, item.ID, err)
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}

// firedThisHour reports whether the client was already dispatched within the
// tick's UTC hour. Guards against double fires from overlapping triggers.
func firedThisHour(c *domain.Client, now time.Time) bool {
	if c.LastAutoScheduledAt == nil {
		return false
	}
	return c.LastAutoScheduledAt.UTC().Truncate(time.Hour).Equal(now.Truncate(time.Hour))
}

// writeRunLog appends a run log entry; failures are logged, never fatal.
func (s *Service) writeRunLog(ctx context.Context, action string, clientID uuid.UUID, summary *domain.DispatchSummary) {
	details, err := json.Marshal(summary.Results)
	if err != nil {
		s.log.Error("failed to serialize run log details", "error", err)
		details = nil
	}

	_, err = s.runLogs.Create(ctx, &domain.RunLogEntry{
		ClientID:   clientID,
		Action:     action,
		Success:    summary.Failed == 0,
		Processed:  summary.Processed,
		Succeeded:  summary.Successful,
		Failed:     summary.Failed,
		DurationMs: summary.DurationMs,
		Details:    details,
	})
	if err != nil {
		s.log.Error("failed to write run log", "action", action, "error", err)
	}
}

// recordBatchFailure writes a run log entry for an error that killed the
// whole batch. The schema requires a client attribution, so the entry is
// pinned to the first active client; with none available the failure lives
// in the logs only.
func (s *Service) recordBatchFailure(ctx context.Context, batchErr error) {
	clientID, err := s.clients.FirstActiveID(ctx)
	if err != nil {
		s.log.Error("batch failure with no attributable client", "error", batchErr)
		return
	}

	details, _ := json.Marshal(map[string]string{"error": batchErr.Error()})
	_, err = s.runLogs.Create(ctx, &domain.RunLogEntry{
		ClientID: clientID,
		Action:   domain.RunLogActionAutoSchedule,
		Success:  false,
		Details:  details,
	})
	if err != nil {
		s.log.Error("failed to write batch failure run log", "error", err)
	}
}

// failContent marks a content item FAILED, best effort.
func (s *Service) failContent(ctx context.Context, itemID uuid.UUID, cause error) {
	if err := s.content.SetFailed(ctx, itemID, cause.Error()); err != nil {
		s.log.Error("failed to mark content item FAILED", "content_item_id", itemID, "error", err)
	}
}
