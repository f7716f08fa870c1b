package domain

import "github.com/google/uuid"

// CombinationKey identifies one (question, location) pairing in the
// rotation ledger.
type CombinationKey struct {
	QuestionID uuid.UUID
	LocationID uuid.UUID
}

// Run log actions.
const (
	RunLogActionAutoSchedule   = "AUTO_SCHEDULE"
	RunLogActionManualDispatch = "MANUAL_DISPATCH"
)
