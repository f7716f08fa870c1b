package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContentItem is one generated piece of content. Created by the dispatcher
// (or a manual trigger) with status GENERATING; the generation pipeline owns
// all later status transitions except the FAILED override on pipeline error.
type ContentItem struct {
	ID               uuid.UUID
	ClientID         uuid.UUID
	QuestionID       uuid.UUID
	LocationID       uuid.UUID
	RenderedQuestion string
	ScheduledFor     time.Time
	Status           ContentStatus
	ErrorMessage     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
