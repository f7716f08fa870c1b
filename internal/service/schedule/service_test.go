package schedule

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/localboost-backend/internal/config"
	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// tickTime is a Monday at 09:00 UTC — slot index 2, first day of MON_WED.
var tickTime = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

// testDeps bundles the mocks for one Service under test. Nil fields become
// empty mocks (panicking on any call), so tests declare what they expect.
type testDeps struct {
	clients   *clientRepoMock
	questions *questionRepoMock
	locations *locationRepoMock
	combos    *comboRepoMock
	content   *contentRepoMock
	runLogs   *runLogRepoMock
	tx        *txManagerMock
	pipeline  *pipelineMock
	clock     *clockwork.FakeClock
	cfg       *config.SchedulerConfig
}

func newTestService(t *testing.T, d *testDeps) *Service {
	t.Helper()

	if d.clients == nil {
		d.clients = &clientRepoMock{}
	}
	if d.questions == nil {
		d.questions = &questionRepoMock{}
	}
	if d.locations == nil {
		d.locations = &locationRepoMock{}
	}
	if d.combos == nil {
		d.combos = &comboRepoMock{}
	}
	if d.content == nil {
		d.content = &contentRepoMock{}
	}
	if d.runLogs == nil {
		d.runLogs = &runLogRepoMock{}
	}
	if d.tx == nil {
		d.tx = &txManagerMock{}
	}
	if d.pipeline == nil {
		d.pipeline = &pipelineMock{}
	}
	if d.clock == nil {
		d.clock = clockwork.NewFakeClockAt(tickTime)
	}
	if d.cfg == nil {
		d.cfg = &config.SchedulerConfig{GridCellCapacity: 10}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(
		logger, d.clock,
		d.clients, d.questions, d.locations, d.combos, d.content, d.runLogs,
		d.tx, d.pipeline, *d.cfg,
	)
}

// ---------------------------------------------------------------------------
// Fixture builders
// ---------------------------------------------------------------------------

func mkClient(pair domain.DayPairKey, slot int) *domain.Client {
	return &domain.Client{
		ID:                    uuid.New(),
		Name:                  "Sparkle Cleaning",
		Status:                domain.ClientStatusActive,
		SubscriptionStatus:    domain.SubscriptionActive,
		AutoScheduleEnabled:   true,
		AutoScheduleFrequency: 2,
		ScheduleDayPair:       &pair,
		ScheduleTimeSlot:      &slot,
	}
}

func mkUnassignedClient() *domain.Client {
	return &domain.Client{
		ID:                    uuid.New(),
		Name:                  "Sparkle Cleaning",
		Status:                domain.ClientStatusActive,
		SubscriptionStatus:    domain.SubscriptionActive,
		AutoScheduleFrequency: 2,
	}
}

func mkQuestion(text string, priority int) *domain.Question {
	return &domain.Question{
		ID:       uuid.New(),
		Text:     text,
		Source:   domain.QuestionSourceStandard,
		Priority: priority,
		IsActive: true,
	}
}

func mkLocation(city, state string) *domain.Location {
	return &domain.Location{
		ID:       uuid.New(),
		City:     city,
		State:    state,
		IsActive: true,
	}
}
