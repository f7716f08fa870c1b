package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a dashboard operator account. The scheduling core only needs it
// for authenticating the admin surface.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
