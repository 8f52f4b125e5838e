package repository

import "time"

const (
	defaultKeyPrefix   = "crease"
	defaultDialTimeout = 5 * time.Second
)

// Option configures the Redis and Postgres stores.
type Option func(*options)

type options struct {
	keyPrefix   string
	dialTimeout time.Duration
	matchTTL    time.Duration
}

func newOptions(opts []Option) options {
	o := options{keyPrefix: defaultKeyPrefix, dialTimeout: defaultDialTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithKeyPrefix namespaces Redis keys.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
	}
}

// WithDialTimeout bounds the connectivity check made when a store opens.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.dialTimeout = d
		}
	}
}

// WithMatchTTL expires Redis match snapshots after d. Zero keeps them.
func WithMatchTTL(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.matchTTL = d
		}
	}
}
