package scenario

import "errors"

var (
	// ErrBadToken means a delivery token could not be read.
	ErrBadToken = errors.New("bad delivery token")

	// ErrInvalidScenario means a scenario file is malformed.
	ErrInvalidScenario = errors.New("invalid scenario")

	// ErrOutOfStep means the scenario lists deliveries for an innings that is
	// not in play.
	ErrOutOfStep = errors.New("scenario out of step with the match")
)
