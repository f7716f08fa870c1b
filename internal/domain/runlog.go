package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunLogEntry is one append-only record of a dispatch batch outcome.
// ClientID is NOT NULL by schema; batch-level failures are attributed to any
// available active client (a known workaround, see the dispatcher).
type RunLogEntry struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	Action     string
	Success    bool
	Processed  int
	Succeeded  int
	Failed     int
	DurationMs int64
	Details    []byte // serialized per-client result list (JSON)
	CreatedAt  time.Time
}

// RunLogFilter narrows run log listings for the monitoring dashboard.
type RunLogFilter struct {
	ClientID *uuid.UUID
	Action   *string
	Since    *time.Time
	Limit    int
	Offset   int
}

// ClientDispatchResult is the per-client outcome inside a dispatch batch.
type ClientDispatchResult struct {
	ClientID      uuid.UUID  `json:"clientId"`
	ClientName    string     `json:"clientName"`
	Success       bool       `json:"success"`
	ContentItemID *uuid.UUID `json:"contentItemId,omitempty"`
	Question      string     `json:"question,omitempty"`
	Location      string     `json:"location,omitempty"`
	Recycled      bool       `json:"recycled,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// DispatchSummary is the structured result of one hourly tick.
type DispatchSummary struct {
	Success    bool                   `json:"success"`
	TimeSlot   string                 `json:"timeSlot"`
	SlotIndex  int                    `json:"slotIndex"`
	Day        string                 `json:"day"`
	Processed  int                    `json:"processed"`
	Successful int                    `json:"successful"`
	Failed     int                    `json:"failed"`
	Results    []ClientDispatchResult `json:"results"`
	DurationMs int64                  `json:"durationMs"`
}

// RotationStatus is the combination-queue projection for the admin UI.
type RotationStatus struct {
	TotalCombinations     int  `json:"totalCombinations"`
	UsedCombinations      int  `json:"usedCombinations"`
	RemainingCombinations int  `json:"remainingCombinations"`
	IsRecycling           bool `json:"isRecycling"`
	TotalQuestions        int  `json:"totalQuestions"`
	TotalLocations        int  `json:"totalLocations"`
}
