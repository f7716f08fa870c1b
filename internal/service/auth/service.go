// Package auth implements admin authentication for the dashboard surface.
package auth

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// userRepo defines the user repository interface needed by the auth service.
type userRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// jwtManager defines the token interface needed by the auth service.
type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID, role string) (string, error)
	ValidateAccessToken(token string) (uuid.UUID, string, error)
}

// Service implements the authentication business logic.
type Service struct {
	log   *slog.Logger
	users userRepo
	jwt   jwtManager
}

// NewService creates a new auth service.
func NewService(logger *slog.Logger, users userRepo, jwt jwtManager) *Service {
	return &Service{
		log:   logger.With("service", "auth"),
		users: users,
		jwt:   jwt,
	}
}

// ValidateToken validates an access token and returns the user ID and role.
// Used by the HTTP auth middleware.
func (s *Service) ValidateToken(_ context.Context, token string) (uuid.UUID, string, error) {
	return s.jwt.ValidateAccessToken(token)
}
