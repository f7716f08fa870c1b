package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// Hand-rolled func-field mocks for the consumer interfaces. A nil func
// panics, so every test states exactly which calls it expects.

var _ clientRepo = &clientRepoMock{}

type clientRepoMock struct {
	GetByIDFunc                func(ctx context.Context, clientID uuid.UUID) (*domain.Client, error)
	ListDueFunc                func(ctx context.Context, slotIndex int) ([]*domain.Client, error)
	CountByGridCellFunc        func(ctx context.Context) ([]domain.GridCellOccupancy, error)
	CountAssignedFunc          func(ctx context.Context) (int, error)
	AssignSlotFunc             func(ctx context.Context, clientID uuid.UUID, pair domain.DayPairKey, slot int) error
	SetAutoScheduleFunc        func(ctx context.Context, clientID uuid.UUID, enabled bool, frequency int) error
	TouchLastAutoScheduledFunc func(ctx context.Context, clientID uuid.UUID, at time.Time) error
	IncrementRotationCycleFunc func(ctx context.Context, clientID uuid.UUID) (int, error)
	FirstActiveIDFunc          func(ctx context.Context) (uuid.UUID, error)
}

func (m *clientRepoMock) GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	return m.GetByIDFunc(ctx, clientID)
}

func (m *clientRepoMock) ListDue(ctx context.Context, slotIndex int) ([]*domain.Client, error) {
	return m.ListDueFunc(ctx, slotIndex)
}

func (m *clientRepoMock) CountByGridCell(ctx context.Context) ([]domain.GridCellOccupancy, error) {
	return m.CountByGridCellFunc(ctx)
}

func (m *clientRepoMock) CountAssigned(ctx context.Context) (int, error) {
	return m.CountAssignedFunc(ctx)
}

func (m *clientRepoMock) AssignSlot(ctx context.Context, clientID uuid.UUID, pair domain.DayPairKey, slot int) error {
	return m.AssignSlotFunc(ctx, clientID, pair, slot)
}

func (m *clientRepoMock) SetAutoSchedule(ctx context.Context, clientID uuid.UUID, enabled bool, frequency int) error {
	return m.SetAutoScheduleFunc(ctx, clientID, enabled, frequency)
}

func (m *clientRepoMock) TouchLastAutoScheduled(ctx context.Context, clientID uuid.UUID, at time.Time) error {
	return m.TouchLastAutoScheduledFunc(ctx, clientID, at)
}

func (m *clientRepoMock) IncrementRotationCycle(ctx context.Context, clientID uuid.UUID) (int, error) {
	return m.IncrementRotationCycleFunc(ctx, clientID)
}

func (m *clientRepoMock) FirstActiveID(ctx context.Context) (uuid.UUID, error) {
	return m.FirstActiveIDFunc(ctx)
}

var _ questionRepo = &questionRepoMock{}

type questionRepoMock struct {
	ListActiveFunc func(ctx context.Context, clientID uuid.UUID) ([]*domain.Question, error)
	MarkUsedFunc   func(ctx context.Context, questionID uuid.UUID, at time.Time) error
	ResetUsageFunc func(ctx context.Context, clientID uuid.UUID) error
}

func (m *questionRepoMock) ListActive(ctx context.Context, clientID uuid.UUID) ([]*domain.Question, error) {
	return m.ListActiveFunc(ctx, clientID)
}

func (m *questionRepoMock) MarkUsed(ctx context.Context, questionID uuid.UUID, at time.Time) error {
	return m.MarkUsedFunc(ctx, questionID, at)
}

func (m *questionRepoMock) ResetUsage(ctx context.Context, clientID uuid.UUID) error {
	return m.ResetUsageFunc(ctx, clientID)
}

var _ locationRepo = &locationRepoMock{}

type locationRepoMock struct {
	ListActiveFunc      func(ctx context.Context, clientID uuid.UUID) ([]*domain.Location, error)
	GetHeadquartersFunc func(ctx context.Context, clientID uuid.UUID) (*domain.Location, error)
	MarkUsedFunc        func(ctx context.Context, locationID uuid.UUID, at time.Time) error
	ResetUsageFunc      func(ctx context.Context, clientID uuid.UUID) error
}

func (m *locationRepoMock) ListActive(ctx context.Context, clientID uuid.UUID) ([]*domain.Location, error) {
	return m.ListActiveFunc(ctx, clientID)
}

func (m *locationRepoMock) GetHeadquarters(ctx context.Context, clientID uuid.UUID) (*domain.Location, error) {
	return m.GetHeadquartersFunc(ctx, clientID)
}

func (m *locationRepoMock) MarkUsed(ctx context.Context, locationID uuid.UUID, at time.Time) error {
	return m.MarkUsedFunc(ctx, locationID, at)
}

func (m *locationRepoMock) ResetUsage(ctx context.Context, clientID uuid.UUID) error {
	return m.ResetUsageFunc(ctx, clientID)
}

var _ comboRepo = &comboRepoMock{}

type comboRepoMock struct {
	ListUsedFunc    func(ctx context.Context, clientID uuid.UUID, cycle int) (map[domain.CombinationKey]struct{}, error)
	CountUsedFunc   func(ctx context.Context, clientID uuid.UUID, cycle int) (int, error)
	MarkUsedFunc    func(ctx context.Context, clientID uuid.UUID, key domain.CombinationKey, cycle int, at time.Time) error
	DeleteCycleFunc func(ctx context.Context, clientID uuid.UUID, cycle int) error
}

func (m *comboRepoMock) ListUsed(ctx context.Context, clientID uuid.UUID, cycle int) (map[domain.CombinationKey]struct{}, error) {
	return m.ListUsedFunc(ctx, clientID, cycle)
}

func (m *comboRepoMock) CountUsed(ctx context.Context, clientID uuid.UUID, cycle int) (int, error) {
	return m.CountUsedFunc(ctx, clientID, cycle)
}

func (m *comboRepoMock) MarkUsed(ctx context.Context, clientID uuid.UUID, key domain.CombinationKey, cycle int, at time.Time) error {
	return m.MarkUsedFunc(ctx, clientID, key, cycle, at)
}

func (m *comboRepoMock) DeleteCycle(ctx context.Context, clientID uuid.UUID, cycle int) error {
	return m.DeleteCycleFunc(ctx, clientID, cycle)
}

var _ contentRepo = &contentRepoMock{}

type contentRepoMock struct {
	CreateFunc    func(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error)
	SetFailedFunc func(ctx context.Context, itemID uuid.UUID, errMsg string) error
}

func (m *contentRepoMock) Create(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error) {
	return m.CreateFunc(ctx, item)
}

func (m *contentRepoMock) SetFailed(ctx context.Context, itemID uuid.UUID, errMsg string) error {
	return m.SetFailedFunc(ctx, itemID, errMsg)
}

var _ runLogRepo = &runLogRepoMock{}

type runLogRepoMock struct {
	CreateFunc func(ctx context.Context, entry *domain.RunLogEntry) (*domain.RunLogEntry, error)
	ListFunc   func(ctx context.Context, filter domain.RunLogFilter) ([]*domain.RunLogEntry, error)
}

func (m *runLogRepoMock) Create(ctx context.Context, entry *domain.RunLogEntry) (*domain.RunLogEntry, error) {
	return m.CreateFunc(ctx, entry)
}

func (m *runLogRepoMock) List(ctx context.Context, filter domain.RunLogFilter) ([]*domain.RunLogEntry, error) {
	return m.ListFunc(ctx, filter)
}

var _ txManager = &txManagerMock{}

// txManagerMock runs the callback directly unless a RunInTxFunc is set.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

var _ contentPipeline = &pipelineMock{}

type pipelineMock struct {
	RunFunc func(ctx context.Context, contentItemID uuid.UUID) error
}

func (m *pipelineMock) Run(ctx context.Context, contentItemID uuid.UUID) error {
	return m.RunFunc(ctx, contentItemID)
}
