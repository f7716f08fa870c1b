// Package content implements the ContentItem repository using PostgreSQL.
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/localboost-backend/internal/adapter/postgres"
	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// Repo provides content item persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new content item repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const contentColumns = `id, client_id, question_id, location_id, rendered_question,
       scheduled_for, status, error_message, created_at, updated_at`

const createSQL = `
INSERT INTO content_items (client_id, question_id, location_id, rendered_question, scheduled_for, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + contentColumns

const getByIDSQL = `
SELECT ` + contentColumns + `
FROM content_items
WHERE id = $1`

const updateStatusSQL = `
UPDATE content_items
SET status = $2, updated_at = now()
WHERE id = $1`

const setFailedSQL = `
UPDATE content_items
SET status = 'FAILED', error_message = $2, updated_at = now()
WHERE id = $1`

// Create inserts a content item and returns the stored row.
func (r *Repo) Create(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createSQL,
		item.ClientID, item.QuestionID, item.LocationID,
		item.RenderedQuestion, item.ScheduledFor, string(item.Status),
	)
	created, err := scanContentItem(row)
	if err != nil {
		return nil, mapError(err, "content_item", item.ID)
	}

	return created, nil
}

// GetByID returns a content item by primary key.
func (r *Repo) GetByID(ctx context.Context, itemID uuid.UUID) (*domain.ContentItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getByIDSQL, itemID)
	item, err := scanContentItem(row)
	if err != nil {
		return nil, mapError(err, "content_item", itemID)
	}

	return item, nil
}

// UpdateStatus transitions a content item's lifecycle status.
func (r *Repo) UpdateStatus(ctx context.Context, itemID uuid.UUID, status domain.ContentStatus) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateStatusSQL, itemID, string(status))
	if err != nil {
		return mapError(err, "content_item", itemID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("content_item %s: %w", itemID, domain.ErrNotFound)
	}
	return nil
}

// SetFailed marks a content item FAILED and stores the pipeline error.
func (r *Repo) SetFailed(ctx context.Context, itemID uuid.UUID, errMsg string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, setFailedSQL, itemID, errMsg)
	if err != nil {
		return mapError(err, "content_item", itemID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("content_item %s: %w", itemID, domain.ErrNotFound)
	}
	return nil
}

func scanContentItem(row pgx.Row) (*domain.ContentItem, error) {
	var (
		item   domain.ContentItem
		status string
	)

	err := row.Scan(
		&item.ID, &item.ClientID, &item.QuestionID, &item.LocationID, &item.RenderedQuestion,
		&item.ScheduledFor, &status, &item.ErrorMessage, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Status = domain.ContentStatus(status)
	return &item, nil
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
