// Package dedupe tracks command ids so a retried submission is applied once.
package dedupe

import (
	"context"
	"sync"
)

// DefaultMaxSize bounds the ids kept when no size is configured.
const DefaultMaxSize = 10000

// Deduper records seen command ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it
	// if not. The check and the record happen atomically.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a command that failed can be retried.
	Unrecord(ctx context.Context, id string)

	Size() int
}

// fifo keeps at most maxSize ids and evicts the oldest first. A non-positive
// maxSize keeps every id.
type fifo struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	maxSize int
}

// NewInMemoryDeduper returns a mutex-guarded bounded deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &fifo{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

func (d *fifo) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 {
		for len(d.order) >= d.maxSize {
			delete(d.seen, d.order[0])
			d.order = d.order[1:]
		}
		d.order = append(d.order, id)
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *fifo) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		return
	}
	delete(d.seen, id)
	for i, v := range d.order {
		if v == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

func (d *fifo) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
