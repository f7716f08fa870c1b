// Package user implements the dashboard user repository using PostgreSQL.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/localboost-backend/internal/adapter/postgres"
	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByEmailSQL = `
SELECT id, email, password_hash, role, created_at, updated_at
FROM users
WHERE email = $1`

// GetByEmail returns a user by email.
// Returns domain.ErrNotFound when the email is unknown.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		u    domain.User
		role string
	)
	err := q.QueryRow(ctx, getByEmailSQL, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("user %s: %w", email, err)
	}

	u.Role = domain.UserRole(role)
	return &u, nil
}
