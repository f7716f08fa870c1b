// Package combo implements the pairwise usage ledger repository.
// One row per consumed (question, location) pairing within a rotation cycle;
// the ledger is what guarantees no combination repeats before every other
// combination has appeared once.
package combo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/localboost-backend/internal/adapter/postgres"
	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// Repo provides ledger persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new ledger repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listUsedSQL = `
SELECT question_id, location_id
FROM used_combinations
WHERE client_id = $1 AND cycle = $2`

const markUsedSQL = `
INSERT INTO used_combinations (client_id, question_id, location_id, cycle, used_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT DO NOTHING`

const deleteCycleSQL = `
DELETE FROM used_combinations
WHERE client_id = $1 AND cycle = $2`

const countUsedSQL = `
SELECT count(*)
FROM used_combinations
WHERE client_id = $1 AND cycle = $2`

// ListUsed returns the set of pairings consumed in the given cycle.
func (r *Repo) ListUsed(ctx context.Context, clientID uuid.UUID, cycle int) (map[domain.CombinationKey]struct{}, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listUsedSQL, clientID, cycle)
	if err != nil {
		return nil, fmt.Errorf("list used combinations: %w", err)
	}
	defer rows.Close()

	used := make(map[domain.CombinationKey]struct{})
	for rows.Next() {
		var k domain.CombinationKey
		if err := rows.Scan(&k.QuestionID, &k.LocationID); err != nil {
			return nil, fmt.Errorf("scan used combination: %w", err)
		}
		used[k] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list used combinations: %w", err)
	}

	return used, nil
}

// CountUsed returns how many pairings the given cycle has consumed.
func (r *Repo) CountUsed(ctx context.Context, clientID uuid.UUID, cycle int) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countUsedSQL, clientID, cycle).Scan(&count); err != nil {
		return 0, fmt.Errorf("count used combinations: %w", err)
	}
	return count, nil
}

// MarkUsed records a consumed pairing. Idempotent: re-recording the same
// pairing within a cycle is a no-op.
func (r *Repo) MarkUsed(ctx context.Context, clientID uuid.UUID, key domain.CombinationKey, cycle int, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, markUsedSQL, clientID, key.QuestionID, key.LocationID, cycle, at); err != nil {
		return mapError(err, clientID)
	}
	return nil
}

// DeleteCycle drops all ledger rows of a finished cycle.
func (r *Repo) DeleteCycle(ctx context.Context, clientID uuid.UUID, cycle int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, deleteCycleSQL, clientID, cycle); err != nil {
		return mapError(err, clientID)
	}
	return nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, clientID uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("used_combination %s: %w", clientID, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
		return fmt.Errorf("used_combination %s: %w", clientID, domain.ErrNotFound)
	}

	return fmt.Errorf("used_combination %s: %w", clientID, err)
}
