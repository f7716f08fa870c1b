// Package question implements the Question repository using PostgreSQL.
package question

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

// Repo provides question persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new question repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const questionColumns = `id, client_id, text, source, priority, is_active, used_at, used_count, created_at, updated_at`

const getByIDSQL = `
SELECT ` + questionColumns + `
FROM questions
WHERE id = $1`

// Rotation order: lowest priority first, then least-recently used with
// never-used questions (NULL used_at) ahead of everything.
const listActiveSQL = `
SELECT ` + questionColumns + `
FROM questions
WHERE client_id = $1 AND is_active
ORDER BY priority ASC, used_at ASC NULLS FIRST, id`

const markUsedSQL = `
UPDATE questions
SET used_at = $2, used_count = used_count + 1, updated_at = now()
WHERE id = $1`

const resetUsageSQL = `
UPDATE questions
SET used_at = NULL, used_count = 0, updated_at = now()
WHERE client_id = $1`

const createSQL = `
INSERT INTO questions (client_id, text, source, priority, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + questionColumns

// GetByID returns a question by primary key.
func (r *Repo) GetByID(ctx context.Context, questionID uuid.UUID) (*domain.Question, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getByIDSQL, questionID)
	question, err := scanQuestion(row)
	if err != nil {
		return nil, mapError(err, "question", questionID)
	}

	return question, nil
}

// ListActive returns the client's active questions in rotation order.
// Returns an empty slice (not nil) when the client has none.
func (r *Repo) ListActive(ctx context.Context, clientID uuid.UUID) ([]*domain.Question, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listActiveSQL, clientID)
	if err != nil {
		return nil, fmt.Errorf("list active questions: %w", err)
	}
	defer rows.Close()

	questions := make([]*domain.Question, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active questions: %w", err)
	}

	return questions, nil
}

// Create inserts a question and returns the stored row.
func (r *Repo) Create(ctx context.Context, question *domain.Question) (*domain.Question, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createSQL,
		question.ClientID, question.Text, string(question.Source), question.Priority, question.IsActive,
	)
	created, err := scanQuestion(row)
	if err != nil {
		return nil, mapError(err, "question", question.ID)
	}

	return created, nil
}

// MarkUsed stamps used_at and increments used_count.
func (r *Repo) MarkUsed(ctx context.Context, questionID uuid.UUID, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, markUsedSQL, questionID, at)
	if err != nil {
		return mapError(err, "question", questionID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %s: %w", questionID, domain.ErrNotFound)
	}
	return nil
}

// ResetUsage clears usage markers for all of one client's questions.
// Called when the client's rotation recycles; other clients are untouched.
func (r *Repo) ResetUsage(ctx context.Context, clientID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, resetUsageSQL, clientID); err != nil {
		return mapError(err, "question", uuid.Nil)
	}
	return nil
}

func scanQuestion(row pgx.Row) (*domain.Question, error) {
	var (
		question domain.Question
		source   string
	)

	err := row.Scan(
		&question.ID, &question.ClientID, &question.Text, &source, &question.Priority,
		&question.IsActive, &question.UsedAt, &question.UsedCount, &question.CreatedAt, &question.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	question.Source = domain.QuestionSource(source)
	return &question, nil
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
