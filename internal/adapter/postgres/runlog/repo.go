// Package runlog implements the append-only RunLog repository.
// Entries are never mutated after creation; the listing query is dynamic
// (squirrel) because the monitoring dashboard filters vary.
package runlog

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/localboost-backend/internal/adapter/postgres"
	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// Repo provides run log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new run log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const runLogColumns = `id, client_id, action, success, processed, succeeded, failed, duration_ms, details, created_at`

const createSQL = `
INSERT INTO run_logs (client_id, action, success, processed, succeeded, failed, duration_ms, details)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + runLogColumns

// Create appends a run log entry and returns the stored row.
func (r *Repo) Create(ctx context.Context, entry *domain.RunLogEntry) (*domain.RunLogEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createSQL,
		entry.ClientID, entry.Action, entry.Success,
		entry.Processed, entry.Succeeded, entry.Failed, entry.DurationMs, entry.Details,
	)
	created, err := scanRunLog(row)
	if err != nil {
		return nil, mapError(err, entry.ClientID)
	}

	return created, nil
}

// List returns run log entries matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.RunLogFilter) ([]*domain.RunLogEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	builder := sq.Select(runLogColumns).
		From("run_logs").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.ClientID != nil {
		builder = builder.Where(sq.Eq{"client_id": *filter.ClientID})
	}
	if filter.Action != nil {
		builder = builder.Where(sq.Eq{"action": *filter.Action})
	}
	if filter.Since != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.Since})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build run log query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list run logs: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.RunLogEntry, 0)
	for rows.Next() {
		entry, err := scanRunLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list run logs: %w", err)
	}

	return entries, nil
}

func scanRunLog(row pgx.Row) (*domain.RunLogEntry, error) {
	var entry domain.RunLogEntry

	err := row.Scan(
		&entry.ID, &entry.ClientID, &entry.Action, &entry.Success,
		&entry.Processed, &entry.Succeeded, &entry.Failed, &entry.DurationMs,
		&entry.Details, &entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, clientID uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("run_log %s: %w", clientID, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("run_log %s: %w", clientID, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
		return fmt.Errorf("run_log %s: %w", clientID, domain.ErrNotFound)
	}

	return fmt.Errorf("run_log %s: %w", clientID, err)
}
