package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is a service area of one client. Exactly one location per client
// is the headquarters, used as the fallback when no other active location
// exists.
type Location struct {
	ID             uuid.UUID
	ClientID       uuid.UUID
	City           string
	State          string
	Neighborhood   *string
	IsActive       bool
	IsHeadquarters bool
	UsedAt         *time.Time
	UsedCount      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName renders the location as "Neighborhood, City, State" or
// "City, State" when no neighborhood is set.
func (l *Location) DisplayName() string {
	if l.Neighborhood != nil && *l.Neighborhood != "" {
		return *l.Neighborhood + ", " + l.City + ", " + l.State
	}
	return l.City + ", " + l.State
}
