package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// UpdateAutoScheduleInput carries the settings toggle payload.
type UpdateAutoScheduleInput struct {
	Enabled   bool
	Frequency int
}

// UpdateAutoSchedule flips the auto-scheduling flag and weekly frequency.
// Enabling a client that never held a grid cell triggers slot assignment;
// a client that already has one keeps it, even across disable/enable.
func (s *Service) UpdateAutoSchedule(ctx context.Context, clientID uuid.UUID, input UpdateAutoScheduleInput) (*domain.Client, error) {
	if input.Frequency != 1 && input.Frequency != 2 {
		return nil, domain.NewValidationError("frequency", "must be 1 or 2 posts per week")
	}

	if err := s.clients.SetAutoSchedule(ctx, clientID, input.Enabled, input.Frequency); err != nil {
		return nil, fmt.Errorf("update auto schedule: %w", err)
	}

	if input.Enabled {
		if _, _, err := s.AssignSlot(ctx, clientID); err != nil {
			return nil, fmt.Errorf("update auto schedule: %w", err)
		}
	}

	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("update auto schedule: %w", err)
	}

	s.log.Info("auto schedule updated",
		"client_id", clientID,
		"enabled", input.Enabled,
		"frequency", input.Frequency,
	)
	return c, nil
}
