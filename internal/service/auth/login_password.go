package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// LoginPasswordInput is the email/password login payload.
type LoginPasswordInput struct {
	Email    string
	Password string
}

// Validate checks required fields.
func (in LoginPasswordInput) Validate() error {
	var errs []domain.FieldError
	if in.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "is required"})
	}
	if in.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "is required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AuthResult is a successful login: the user plus a signed access token.
type AuthResult struct {
	User        *domain.User
	AccessToken string
}

// LoginWithPassword authenticates a dashboard user with email + password.
// Returns ErrUnauthorized on unknown email or wrong password — the caller
// cannot tell which.
func (s *Service) LoginWithPassword(ctx context.Context, input LoginPasswordInput) (*AuthResult, error) {
	input.Email = strings.TrimSpace(input.Email)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.LoginWithPassword get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.jwt.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth.LoginWithPassword issue token: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in via password",
		slog.String("user_id", user.ID.String()))

	return &AuthResult{User: user, AccessToken: token}, nil
}
