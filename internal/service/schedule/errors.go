package schedule

import "errors"

// Errors returned when a client's rotation inputs are not configured.
var (
	ErrNoActiveQuestions = errors.New("client has no active questions")
	ErrNoLocations       = errors.New("client has no active locations and no headquarters")
)
