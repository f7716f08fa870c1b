// Package client implements the Client repository using PostgreSQL.
// Fixed-shape queries use raw SQL constants; the due-clients lookup uses
// squirrel because its predicate set varies.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/localboost-backend/internal/adapter/postgres"
	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// Repo provides client persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new client repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const clientColumns = `id, name, status, subscription_status, auto_schedule_enabled,
       auto_schedule_frequency, schedule_day_pair, schedule_time_slot, rotation_cycle,
       last_auto_scheduled_at, timezone, preferred_publish_time, created_at, updated_at`

const getByIDSQL = `
SELECT ` + clientColumns + `
FROM clients
WHERE id = $1`

const countByGridCellSQL = `
SELECT schedule_day_pair, schedule_time_slot, count(*)
FROM clients
WHERE auto_schedule_enabled
  AND schedule_day_pair IS NOT NULL
  AND schedule_time_slot IS NOT NULL
GROUP BY schedule_day_pair, schedule_time_slot`

const countAssignedSQL = `
SELECT count(*)
FROM clients
WHERE auto_schedule_enabled
  AND schedule_day_pair IS NOT NULL
  AND schedule_time_slot IS NOT NULL`

// assignSlotSQL only fires for unassigned clients: assignment is sticky and
// must never silently move an existing slot.
const assignSlotSQL = `
UPDATE clients
SET schedule_day_pair = $2, schedule_time_slot = $3, updated_at = now()
WHERE id = $1
  AND schedule_day_pair IS NULL
  AND schedule_time_slot IS NULL`

const setAutoScheduleSQL = `
UPDATE clients
SET auto_schedule_enabled = $2, auto_schedule_frequency = $3, updated_at = now()
WHERE id = $1`

const touchLastAutoScheduledSQL = `
UPDATE clients
SET last_auto_scheduled_at = $2, updated_at = now()
WHERE id = $1`

const incrementRotationCycleSQL = `
UPDATE clients
SET rotation_cycle = rotation_cycle + 1, updated_at = now()
WHERE id = $1
RETURNING rotation_cycle`

const firstActiveIDSQL = `
SELECT id
FROM clients
WHERE status = 'ACTIVE'
ORDER BY created_at
LIMIT 1`

// GetByID returns a client by primary key.
func (r *Repo) GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getByIDSQL, clientID)
	c, err := scanClient(row)
	if err != nil {
		return nil, mapError(err, "client", clientID)
	}

	return c, nil
}

// ListDue returns clients eligible for dispatch at the given slot index:
// ACTIVE, auto-scheduling enabled, slot match, and a subscription state that
// permits publishing. Day-pair and frequency gating happen in the service —
// they are domain logic, not a query shape. Ordered by created_at for a
// stable (but not semantically meaningful) batch order.
func (r *Repo) ListDue(ctx context.Context, slotIndex int) ([]*domain.Client, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := sq.Select(clientColumns).
		From("clients").
		Where(sq.Eq{"status": string(domain.ClientStatusActive)}).
		Where(sq.Eq{"auto_schedule_enabled": true}).
		Where(sq.Eq{"schedule_time_slot": slotIndex}).
		Where(sq.Eq{"subscription_status": []string{
			string(domain.SubscriptionActive),
			string(domain.SubscriptionTrialing),
		}}).
		OrderBy("created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due-clients query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list due clients: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan due client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list due clients: %w", err)
	}

	return clients, nil
}

// CountByGridCell returns the occupancy aggregate for slot assignment.
// Occupancy is always recomputed from the clients table, never cached — a
// separate counter would drift.
func (r *Repo) CountByGridCell(ctx context.Context) ([]domain.GridCellOccupancy, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, countByGridCellSQL)
	if err != nil {
		return nil, fmt.Errorf("count by grid cell: %w", err)
	}
	defer rows.Close()

	cells := make([]domain.GridCellOccupancy, 0)
	for rows.Next() {
		var (
			pair string
			slot int
			cnt  int
		)
		if err := rows.Scan(&pair, &slot, &cnt); err != nil {
			return nil, fmt.Errorf("scan grid cell: %w", err)
		}
		cells = append(cells, domain.GridCellOccupancy{
			DayPair:  domain.DayPairKey(pair),
			TimeSlot: slot,
			Count:    cnt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count by grid cell: %w", err)
	}

	return cells, nil
}

// CountAssigned returns the number of enabled clients holding a slot.
func (r *Repo) CountAssigned(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countAssignedSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count assigned clients: %w", err)
	}
	return count, nil
}

// AssignSlot writes the grid cell onto an unassigned client.
// Returns domain.ErrConflict if the client already has an assignment
// (stickiness guard, enforced in SQL to survive races).
func (r *Repo) AssignSlot(ctx context.Context, clientID uuid.UUID, pair domain.DayPairKey, slot int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, assignSlotSQL, clientID, string(pair), slot)
	if err != nil {
		return mapError(err, "client", clientID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: slot already assigned: %w", clientID, domain.ErrConflict)
	}
	return nil
}

// SetAutoSchedule updates the enable flag and weekly frequency.
func (r *Repo) SetAutoSchedule(ctx context.Context, clientID uuid.UUID, enabled bool, frequency int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, setAutoScheduleSQL, clientID, enabled, frequency)
	if err != nil {
		return mapError(err, "client", clientID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", clientID, domain.ErrNotFound)
	}
	return nil
}

// TouchLastAutoScheduled records the dispatch timestamp used as the
// once-per-tick guard.
func (r *Repo) TouchLastAutoScheduled(ctx context.Context, clientID uuid.UUID, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, touchLastAutoScheduledSQL, clientID, at); err != nil {
		return mapError(err, "client", clientID)
	}
	return nil
}

// IncrementRotationCycle bumps the client's rotation cycle and returns the
// new value. Called once per recycle.
func (r *Repo) IncrementRotationCycle(ctx context.Context, clientID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var cycle int
	if err := q.QueryRow(ctx, incrementRotationCycleSQL, clientID).Scan(&cycle); err != nil {
		return 0, mapError(err, "client", clientID)
	}
	return cycle, nil
}

// FirstActiveID returns any active client ID, used to attribute batch-level
// run log entries (run_logs.client_id is NOT NULL).
// Returns domain.ErrNotFound when no active client exists.
func (r *Repo) FirstActiveID(ctx context.Context) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var id uuid.UUID
	if err := q.QueryRow(ctx, firstActiveIDSQL).Scan(&id); err != nil {
		return uuid.Nil, mapError(err, "client", uuid.Nil)
	}
	return id, nil
}

// scanClient scans one row in clientColumns order.
func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		c       domain.Client
		status  string
		sub     string
		dayPair *string
	)

	err := row.Scan(
		&c.ID, &c.Name, &status, &sub, &c.AutoScheduleEnabled,
		&c.AutoScheduleFrequency, &dayPair, &c.ScheduleTimeSlot, &c.RotationCycle,
		&c.LastAutoScheduledAt, &c.Timezone, &c.PreferredPublishTime, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = domain.ClientStatus(status)
	c.SubscriptionStatus = domain.SubscriptionStatus(sub)
	if dayPair != nil {
		key := domain.DayPairKey(*dayPair)
		c.ScheduleDayPair = &key
	}

	return &c, nil
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
