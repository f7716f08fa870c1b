// Package schedule implements the auto-scheduling business logic: slot
// assignment, combination rotation and the hourly dispatch loop.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/localboost-backend/internal/config"
	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type clientRepo interface {
	GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error)
	ListDue(ctx context.Context, slotIndex int) ([]*domain.Client, error)
	CountByGridCell(ctx context.Context) ([]domain.GridCellOccupancy, error)
	CountAssigned(ctx context.Context) (int, error)
	AssignSlot(ctx context.Context, clientID uuid.UUID, pair domain.DayPairKey, slot int) error
	SetAutoSchedule(ctx context.Context, clientID uuid.UUID, enabled bool, frequency int) error
	TouchLastAutoScheduled(ctx context.Context, clientID uuid.UUID, at time.Time) error
	IncrementRotationCycle(ctx context.Context, clientID uuid.UUID) (int, error)
	FirstActiveID(ctx context.Context) (uuid.UUID, error)
}

type questionRepo interface {
	ListActive(ctx context.Context, clientID uuid.UUID) ([]*domain.Question, error)
	MarkUsed(ctx context.Context, questionID uuid.UUID, at time.Time) error
	ResetUsage(ctx context.Context, clientID uuid.UUID) error
}

type locationRepo interface {
	ListActive(ctx context.Context, clientID uuid.UUID) ([]*domain.Location, error)
	GetHeadquarters(ctx context.Context, clientID uuid.UUID) (*domain.Location, error)
	MarkUsed(ctx context.Context, locationID uuid.UUID, at time.Time) error
	ResetUsage(ctx context.Context, clientID uuid.UUID) error
}

type comboRepo interface {
	ListUsed(ctx context.Context, clientID uuid.UUID, cycle int) (map[domain.CombinationKey]struct{}, error)
	CountUsed(ctx context.Context, clientID uuid.UUID, cycle int) (int, error)
	MarkUsed(ctx context.Context, clientID uuid.UUID, key domain.CombinationKey, cycle int, at time.Time) error
	DeleteCycle(ctx context.Context, clientID uuid.UUID, cycle int) error
}

type contentRepo interface {
	Create(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error)
	SetFailed(ctx context.Context, itemID uuid.UUID, errMsg string) error
}

type runLogRepo interface {
	Create(ctx context.Context, entry *domain.RunLogEntry) (*domain.RunLogEntry, error)
	List(ctx context.Context, filter domain.RunLogFilter) ([]*domain.RunLogEntry, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// contentPipeline triggers generation for a freshly created content item.
type contentPipeline interface {
	Run(ctx context.Context, contentItemID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the scheduling business logic.
type Service struct {
	log       *slog.Logger
	clock     clockwork.Clock
	clients   clientRepo
	questions questionRepo
	locations locationRepo
	combos    comboRepo
	content   contentRepo
	runLogs   runLogRepo
	tx        txManager
	pipeline  contentPipeline
	cfg       config.SchedulerConfig
}

// NewService creates a new schedule service.
func NewService(
	logger *slog.Logger,
	clock clockwork.Clock,
	clients clientRepo,
	questions questionRepo,
	locations locationRepo,
	combos comboRepo,
	content contentRepo,
	runLogs runLogRepo,
	tx txManager,
	pipeline contentPipeline,
	cfg config.SchedulerConfig,
) *Service {
	return &Service{
		log:       logger.With("service", "schedule"),
		clock:     clock,
		clients:   clients,
		questions: questions,
		locations: locations,
		combos:    combos,
		content:   content,
		runLogs:   runLogs,
		tx:        tx,
		pipeline:  pipeline,
		cfg:       cfg,
	}
}

// ListRunLogs returns dispatch history for the monitoring dashboard.
func (s *Service) ListRunLogs(ctx context.Context, filter domain.RunLogFilter) ([]*domain.RunLogEntry, error) {
	return s.runLogs.List(ctx, filter)
}

// GetClient returns a client by ID. Thin passthrough for the admin surface.
func (s *Service) GetClient(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	return s.clients.GetByID(ctx, clientID)
}
