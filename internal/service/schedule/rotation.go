package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// Selection is the rotator's pick for one dispatch: the question/location
// pairing plus the fully rendered question text. Recycled marks the first
// selection of a fresh cycle.
type Selection struct {
	Question *domain.Question
	Location *domain.Location
	Rendered string
	Recycled bool
}

// SelectNext picks the next unused (question, location) pairing for the
// client.
//
// Candidates are walked in rotation order: questions by (priority, least
// recently used), locations by least recently used, never-used entities
// first. The first pairing absent from the current cycle's ledger wins —
// no pairing repeats until every pairing of the cross product has appeared
// once.
//
// When the cross product is exhausted the rotation recycles: the finished
// cycle's ledger rows are dropped, per-entity usage markers reset, the
// client's cycle counter incremented, and the first pairing of the new cycle
// returned with Recycled set.
func (s *Service) SelectNext(ctx context.Context, clientID uuid.UUID) (*Selection, error) {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("select next: %w", err)
	}

	questions, err := s.questions.ListActive(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("select next: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("client %s: %w", clientID, ErrNoActiveQuestions)
	}

	locations, err := s.candidateLocations(ctx, clientID)
	if err != nil {
		return nil, err
	}

	used, err := s.combos.ListUsed(ctx, clientID, c.RotationCycle)
	if err != nil {
		return nil, fmt.Errorf("select next: %w", err)
	}

	if sel := firstUnused(questions, locations, used); sel != nil {
		sel.Rendered = RenderQuestion(sel.Question.Text, sel.Location)
		return sel, nil
	}

	// Cross product exhausted: recycle and restart.
	var newCycle int
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.combos.DeleteCycle(ctx, clientID, c.RotationCycle); err != nil {
			return err
		}
		if err := s.questions.ResetUsage(ctx, clientID); err != nil {
			return err
		}
		if err := s.locations.ResetUsage(ctx, clientID); err != nil {
			return err
		}
		newCycle, err = s.clients.IncrementRotationCycle(ctx, clientID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("recycle rotation: %w", err)
	}

	s.log.Info("rotation recycled",
		"client_id", clientID,
		"cycle", newCycle,
		"questions", len(questions),
		"locations", len(locations),
	)

	// Re-list so the new cycle starts from the reset rotation order.
	questions, err = s.questions.ListActive(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("select next: %w", err)
	}
	locations, err = s.candidateLocations(ctx, clientID)
	if err != nil {
		return nil, err
	}

	sel := &Selection{
		Question: questions[0],
		Location: locations[0],
		Recycled: true,
	}
	sel.Rendered = RenderQuestion(sel.Question.Text, sel.Location)
	return sel, nil
}

// MarkUsed records a dispatched pairing: one ledger row for the current
// cycle plus usage stamps on both entities, atomically.
func (s *Service) MarkUsed(ctx context.Context, clientID, questionID, locationID uuid.UUID) error {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("mark used: %w", err)
	}

	now := s.clock.Now().UTC()
	key := domain.CombinationKey{QuestionID: questionID, LocationID: locationID}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.combos.MarkUsed(ctx, clientID, key, c.RotationCycle, now); err != nil {
			return err
		}
		if err := s.questions.MarkUsed(ctx, questionID, now); err != nil {
			return err
		}
		return s.locations.MarkUsed(ctx, locationID, now)
	})
	if err != nil {
		return fmt.Errorf("mark used: %w", err)
	}
	return nil
}

// Status returns the combination-queue projection for the admin UI.
func (s *Service) Status(ctx context.Context, clientID uuid.UUID) (*domain.RotationStatus, error) {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("rotation status: %w", err)
	}

	questions, err := s.questions.ListActive(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("rotation status: %w", err)
	}
	locations, err := s.locations.ListActive(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("rotation status: %w", err)
	}

	totalLocations := len(locations)
	if totalLocations == 0 {
		// Selection falls back to headquarters, so it still counts as one.
		if _, err := s.locations.GetHeadquarters(ctx, clientID); err == nil {
			totalLocations = 1
		}
	}

	used, err := s.combos.CountUsed(ctx, clientID, c.RotationCycle)
	if err != nil {
		return nil, fmt.Errorf("rotation status: %w", err)
	}

	total := len(questions) * totalLocations
	remaining := total - used
	if remaining < 0 {
		remaining = 0
	}

	return &domain.RotationStatus{
		TotalCombinations:     total,
		UsedCombinations:      used,
		RemainingCombinations: remaining,
		// True only right after a recycle: the client has cycled at least
		// once and the new cycle's ledger holds at most the recycled pick.
		IsRecycling:    c.RotationCycle > 0 && used <= 1,
		TotalQuestions: len(questions),
		TotalLocations: totalLocations,
	}, nil
}

// candidateLocations returns the location rotation order: the client's active
// locations, or the headquarters as a single-element fallback.
func (s *Service) candidateLocations(ctx context.Context, clientID uuid.UUID) ([]*domain.Location, error) {
	locations, err := s.locations.ListActive(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	if len(locations) > 0 {
		return locations, nil
	}

	hq, err := s.locations.GetHeadquarters(ctx, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("client %s: %w", clientID, ErrNoLocations)
		}
		return nil, fmt.Errorf("get headquarters: %w", err)
	}
	return []*domain.Location{hq}, nil
}

// firstUnused walks the cross product in rotation order and returns the
// first pairing not yet in the ledger, or nil when exhausted.
func firstUnused(questions []*domain.Question, locations []*domain.Location, used map[domain.CombinationKey]struct{}) *Selection {
	for _, q := range questions {
		for _, loc := range locations {
			key := domain.CombinationKey{QuestionID: q.ID, LocationID: loc.ID}
			if _, ok := used[key]; !ok {
				return &Selection{Question: q, Location: loc}
			}
		}
	}
	return nil
}
