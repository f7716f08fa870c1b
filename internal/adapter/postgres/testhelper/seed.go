package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a dashboard user with the given role.
// Returns a filled domain.User (PasswordHash is a bcrypt hash of "password").
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:    uuid.New(),
		Email: "testuser-" + suffix + "@example.com",
		// bcrypt("password"), cost 10 — precomputed to keep seeding fast.
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         domain.UserRoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedClient creates an active client with auto-scheduling disabled and no
// slot assignment. Callers flip flags directly when a test needs more.
func SeedClient(t *testing.T, pool *pgxpool.Pool) domain.Client {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	client := domain.Client{
		ID:                    uuid.New(),
		Name:                  "Test Client " + suffix,
		Status:                domain.ClientStatusActive,
		SubscriptionStatus:    domain.SubscriptionActive,
		AutoScheduleEnabled:   false,
		AutoScheduleFrequency: 2,
		Timezone:              "UTC",
		PreferredPublishTime:  "09:00",
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO clients (id, name, status, subscription_status, auto_schedule_enabled,
		                      auto_schedule_frequency, timezone, preferred_publish_time, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		client.ID, client.Name, string(client.Status), string(client.SubscriptionStatus),
		client.AutoScheduleEnabled, client.AutoScheduleFrequency,
		client.Timezone, client.PreferredPublishTime, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedClient insert: %v", err)
	}

	return client
}

// SeedScheduledClient creates an active client with auto-scheduling enabled
// and the given slot assignment.
func SeedScheduledClient(t *testing.T, pool *pgxpool.Pool, pair domain.DayPairKey, slot int) domain.Client {
	t.Helper()
	ctx := context.Background()

	client := SeedClient(t, pool)
	_, err := pool.Exec(ctx,
		`UPDATE clients
		 SET auto_schedule_enabled = true, schedule_day_pair = $2, schedule_time_slot = $3
		 WHERE id = $1`,
		client.ID, string(pair), slot,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedScheduledClient update: %v", err)
	}

	client.AutoScheduleEnabled = true
	client.ScheduleDayPair = &pair
	client.ScheduleTimeSlot = &slot
	return client
}

// SeedQuestion creates an active question for the client.
func SeedQuestion(t *testing.T, pool *pgxpool.Pool, clientID uuid.UUID, text string, priority int) domain.Question {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	q := domain.Question{
		ID:        uuid.New(),
		ClientID:  clientID,
		Text:      text,
		Source:    domain.QuestionSourceCustom,
		Priority:  priority,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO questions (id, client_id, text, source, priority, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.ID, q.ClientID, q.Text, string(q.Source), q.Priority, q.IsActive, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedQuestion insert: %v", err)
	}

	return q
}

// SeedLocation creates an active location for the client.
func SeedLocation(t *testing.T, pool *pgxpool.Pool, clientID uuid.UUID, city, state string, headquarters bool) domain.Location {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	loc := domain.Location{
		ID:             uuid.New(),
		ClientID:       clientID,
		City:           city,
		State:          state,
		IsActive:       true,
		IsHeadquarters: headquarters,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO locations (id, client_id, city, state, is_active, is_headquarters, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		loc.ID, loc.ClientID, loc.City, loc.State, loc.IsActive, loc.IsHeadquarters, loc.CreatedAt, loc.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLocation insert: %v", err)
	}

	return loc
}
