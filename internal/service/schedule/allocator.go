package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// AssignSlot gives the client a (day pair, time slot) grid cell.
//
// Assignment is sticky: a client that already holds a cell keeps it and the
// call returns the existing assignment. Otherwise the least-loaded cell wins,
// with ties broken by canonical day-pair order and then slot index, so the
// same occupancy state always yields the same cell.
//
// Capacity is advisory: a full grid logs a warning and the least-loaded cell
// is assigned anyway.
func (s *Service) AssignSlot(ctx context.Context, clientID uuid.UUID) (domain.DayPairKey, int, error) {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return "", 0, fmt.Errorf("assign slot: %w", err)
	}
	if c.HasSlot() {
		return *c.ScheduleDayPair, *c.ScheduleTimeSlot, nil
	}

	cells, err := s.clients.CountByGridCell(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("assign slot: %w", err)
	}

	occupancy := make(map[domain.DayPairKey]map[int]int, len(cells))
	for _, cell := range cells {
		if occupancy[cell.DayPair] == nil {
			occupancy[cell.DayPair] = make(map[int]int, domain.TimeSlotCount)
		}
		occupancy[cell.DayPair][cell.TimeSlot] = cell.Count
	}

	// First strictly-smaller count wins, so iteration order is the tie-break.
	bestPair := domain.DayPairs()[0].Key
	bestSlot := 0
	bestCount := -1
	for _, pair := range domain.DayPairs() {
		for slot := 0; slot < domain.TimeSlotCount; slot++ {
			count := occupancy[pair.Key][slot]
			if bestCount == -1 || count < bestCount {
				bestPair, bestSlot, bestCount = pair.Key, slot, count
			}
		}
	}

	if bestCount >= s.cfg.GridCellCapacity {
		s.log.Warn("grid at capacity, assigning over the advisory limit",
			"client_id", clientID,
			"day_pair", bestPair,
			"time_slot", bestSlot,
			"cell_count", bestCount,
			"cell_capacity", s.cfg.GridCellCapacity,
		)
	}

	if err := s.clients.AssignSlot(ctx, clientID, bestPair, bestSlot); err != nil {
		// Lost a race with a concurrent assignment; the stored cell stands.
		if errors.Is(err, domain.ErrConflict) {
			current, getErr := s.clients.GetByID(ctx, clientID)
			if getErr == nil && current.HasSlot() {
				return *current.ScheduleDayPair, *current.ScheduleTimeSlot, nil
			}
		}
		return "", 0, fmt.Errorf("assign slot: %w", err)
	}

	s.log.Info("slot assigned",
		"client_id", clientID,
		"day_pair", bestPair,
		"time_slot", bestSlot,
	)
	return bestPair, bestSlot, nil
}

// Capacity returns the grid utilization report.
func (s *Service) Capacity(ctx context.Context) (*domain.CapacityReport, error) {
	used, err := s.clients.CountAssigned(ctx)
	if err != nil {
		return nil, fmt.Errorf("capacity: %w", err)
	}

	total := domain.GridCellCount * s.cfg.GridCellCapacity

	// Soft capacity allows overflow, so Available can go negative. The
	// identity total = used + available holds either way; a negative value
	// is the overload signal for monitoring.
	return &domain.CapacityReport{
		Total:     total,
		Used:      used,
		Available: total - used,
	}, nil
}
