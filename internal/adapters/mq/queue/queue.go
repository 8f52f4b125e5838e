// Package queue carries commands from the service to the worker that owns
// their match.
package queue

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/crease/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 1024
	defaultName     = "queue"
)

// Command is one unit of work against a single match.
type Command struct {
	ID      string
	MatchID string
	Op      string
	Run     func(ctx context.Context) error

	done chan error
}

// NewCommand wraps run as a command with a fresh id.
func NewCommand(matchID, op string, run func(ctx context.Context) error) *Command {
	return &Command{
		ID:      uuid.NewString(),
		MatchID: matchID,
		Op:      op,
		Run:     run,
		done:    make(chan error, 1),
	}
}

// Complete reports the outcome of the command. Only the first call counts.
func (c *Command) Complete(err error) {
	select {
	case c.done <- err:
	default:
	}
}

// Wait blocks until the command completes or ctx ends.
func (c *Command) Wait(ctx context.Context) error {
	select {
	case err := <-c.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a command. It returns ErrFull or ErrClosed instead of
	// blocking.
	Enqueue(ctx context.Context, c *Command) error

	// Dequeue returns the channel commands arrive on. It is closed, after
	// the remaining commands, once the queue is closed.
	Dequeue(ctx context.Context) <-chan *Command

	Len(ctx context.Context) int

	// Close stops new commands. It is safe to call more than once.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	name     string
	commands chan *Command
	capacity int

	mu     sync.RWMutex
	closed bool
}

var _ Queue = (*InMemoryQueue)(nil)

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		name:     defaultName,
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.commands = make(chan *Command, q.capacity)
	metrics.UpdateQueueSize(q.name, 0)
	return q
}

// Enqueue adds a command to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, c *Command) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return ErrClosed
	}
	select {
	case q.commands <- c:
		metrics.UpdateQueueSize(q.name, len(q.commands))
		return nil
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return ctx.Err()
	default:
		metrics.RecordQueueEnqueueError()
		return ErrFull
	}
}

// Dequeue returns the channel commands arrive on.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan *Command {
	return q.commands
}

// Len returns the current number of queued commands.
func (q *InMemoryQueue) Len(_ context.Context) int {
	n := len(q.commands)
	metrics.UpdateQueueSize(q.name, n)
	return n
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.commands)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
