package service

import "errors"

var (
	// ErrNotStarted is returned by operations called before Start.
	ErrNotStarted = errors.New("service not started")

	// ErrUnknownStore means the configured store backend is not supported.
	ErrUnknownStore = errors.New("unknown store backend")

	// errUnchanged ends a command successfully without saving the match.
	errUnchanged = errors.New("match unchanged")
)
