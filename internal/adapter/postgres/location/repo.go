// Package location implements the Location repository using PostgreSQL.
package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/localboost-backend/internal/adapter/postgres"
	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// Repo provides location persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new location repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const locationColumns = `id, client_id, city, state, neighborhood, is_active, is_headquarters, used_at, used_count, created_at, updated_at`

const getByIDSQL = `
SELECT ` + locationColumns + `
FROM locations
WHERE id = $1`

// Rotation order: least-recently used first, never-used ahead of everything.
const listActiveSQL = `
SELECT ` + locationColumns + `
FROM locations
WHERE client_id = $1 AND is_active
ORDER BY used_at ASC NULLS FIRST, id`

const getHeadquartersSQL = `
SELECT ` + locationColumns + `
FROM locations
WHERE client_id = $1 AND is_headquarters`

const markUsedSQL = `
UPDATE locations
SET used_at = $2, used_count = used_count + 1, updated_at = now()
WHERE id = $1`

const resetUsageSQL = `
UPDATE locations
SET used_at = NULL, used_count = 0, updated_at = now()
WHERE client_id = $1`

const createSQL = `
INSERT INTO locations (client_id, city, state, neighborhood, is_active, is_headquarters)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + locationColumns

// GetByID returns a location by primary key.
func (r *Repo) GetByID(ctx context.Context, locationID uuid.UUID) (*domain.Location, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getByIDSQL, locationID)
	loc, err := scanLocation(row)
	if err != nil {
		return nil, mapError(err, "location", locationID)
	}

	return loc, nil
}

// ListActive returns the client's active locations in rotation order.
// Returns an empty slice (not nil) when the client has none.
func (r *Repo) ListActive(ctx context.Context, clientID uuid.UUID) ([]*domain.Location, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listActiveSQL, clientID)
	if err != nil {
		return nil, fmt.Errorf("list active locations: %w", err)
	}
	defer rows.Close()

	locations := make([]*domain.Location, 0)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active locations: %w", err)
	}

	return locations, nil
}

// GetHeadquarters returns the client's headquarters location — the fallback
// when no active service location exists. Exactly one per client by schema.
func (r *Repo) GetHeadquarters(ctx context.Context, clientID uuid.UUID) (*domain.Location, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getHeadquartersSQL, clientID)
	loc, err := scanLocation(row)
	if err != nil {
		return nil, mapError(err, "location", uuid.Nil)
	}

	return loc, nil
}

// Create inserts a location and returns the stored row.
func (r *Repo) Create(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createSQL,
		loc.ClientID, loc.City, loc.State, loc.Neighborhood, loc.IsActive, loc.IsHeadquarters,
	)
	created, err := scanLocation(row)
	if err != nil {
		return nil, mapError(err, "location", loc.ID)
	}

	return created, nil
}

// MarkUsed stamps used_at and increments used_count.
func (r *Repo) MarkUsed(ctx context.Context, locationID uuid.UUID, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, markUsedSQL, locationID, at)
	if err != nil {
		return mapError(err, "location", locationID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("location %s: %w", locationID, domain.ErrNotFound)
	}
	return nil
}

// ResetUsage clears usage markers for all of one client's locations.
func (r *Repo) ResetUsage(ctx context.Context, clientID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, resetUsageSQL, clientID); err != nil {
		return mapError(err, "location", uuid.Nil)
	}
	return nil
}

func scanLocation(row pgx.Row) (*domain.Location, error) {
	var loc domain.Location

	err := row.Scan(
		&loc.ID, &loc.ClientID, &loc.City, &loc.State, &loc.Neighborhood,
		&loc.IsActive, &loc.IsHeadquarters, &loc.UsedAt, &loc.UsedCount, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &loc, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
