package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidID  = errors.New("invalid id")
	ErrCodec      = errors.New("snapshot codec failed")
	ErrMissingDSN = errors.New("postgres DSN is required")
)

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
