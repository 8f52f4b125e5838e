package model

import (
	"errors"
	"strings"
)

// Sentinel error kinds for the engine. Callers match them with errors.Is.
var (
	// ErrValidation means a proposed action was rejected and nothing changed.
	ErrValidation      = errors.New("validation failed")
	ErrInvalidBall     = wrapKind(ErrValidation, "invalid delivery")
	ErrInvalidSettings = wrapKind(ErrValidation, "invalid match settings")

	// ErrInvalidState means the match cannot accept the action yet.
	ErrInvalidState     = errors.New("invalid match state")
	ErrNoBowler         = wrapKind(ErrInvalidState, "no bowler selected")
	ErrNoStriker        = wrapKind(ErrInvalidState, "no batter on strike")
	ErrMatchFinished    = wrapKind(ErrInvalidState, "match already finished")
	ErrInvalidSelection = wrapKind(ErrInvalidState, "invalid player selection")

	// ErrReplayInconsistency means history could not be replayed.
	ErrReplayInconsistency = errors.New("replay inconsistency")
	ErrNothingToUndo       = wrapKind(ErrReplayInconsistency, "no deliveries to undo")

	// ErrRoster means a side cannot field enough batters to continue.
	ErrRoster = errors.New("roster error")
)

// ValidationError carries the rule violations that rejected an action.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Violations, "; ")
}

// Is lets errors.Is(err, ErrValidation) match a ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type kindError struct {
	kind error
	msg  string
}

func wrapKind(kind error, msg string) error { return &kindError{kind: kind, msg: msg} }

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }
