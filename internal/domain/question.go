package domain

import (
	"time"

	"github.com/google/uuid"
)

// Question is a "people also ask" style question template owned by one
// client. Text may contain {location}, {city} and {state} placeholders that
// are substituted at selection time.
//
// Priority orders rotation (lower fires sooner). UsedAt/UsedCount track
// per-entity rotation state and are reset when the client's full combination
// cycle recycles.
type Question struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Text      string
	Source    QuestionSource
	Priority  int
	IsActive  bool
	UsedAt    *time.Time
	UsedCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}
