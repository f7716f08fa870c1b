package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// Legacy single-axis rotators. They predate the pairwise ledger and rotate
// each entity independently: the least-recently-used question (or location)
// is always next, with no awareness of which pairings already ran. Kept for
// callers that rotate one axis at a time.

// NextQuestion returns the client's next question in single-axis rotation
// order.
func (s *Service) NextQuestion(ctx context.Context, clientID uuid.UUID) (*domain.Question, error) {
	questions, err := s.questions.ListActive(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("next question: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("client %s: %w", clientID, ErrNoActiveQuestions)
	}
	return questions[0], nil
}

// NextLocation returns the client's next location in single-axis rotation
// order, falling back to the headquarters when no active location exists.
func (s *Service) NextLocation(ctx context.Context, clientID uuid.UUID) (*domain.Location, error) {
	locations, err := s.candidateLocations(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return locations[0], nil
}

// MarkQuestionUsed stamps a question's usage markers outside the pairwise
// ledger.
func (s *Service) MarkQuestionUsed(ctx context.Context, questionID uuid.UUID) error {
	if err := s.questions.MarkUsed(ctx, questionID, s.clock.Now().UTC()); err != nil {
		return fmt.Errorf("mark question used: %w", err)
	}
	return nil
}

// MarkLocationUsed stamps a location's usage markers outside the pairwise
// ledger.
func (s *Service) MarkLocationUsed(ctx context.Context, locationID uuid.UUID) error {
	if err := s.locations.MarkUsed(ctx, locationID, s.clock.Now().UTC()); err != nil {
		return fmt.Errorf("mark location used: %w", err)
	}
	return nil
}
