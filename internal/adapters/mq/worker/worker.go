// Package worker runs match commands on single-writer goroutines.
//
// Every command for a match id lands on the same worker, so commands for one
// match run one at a time in arrival order while different matches proceed
// in parallel.
package worker

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/crease/internal/adapters/mq/queue"
	"github.com/okian/crease/pkg/logger"
	"github.com/okian/crease/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultQueueSize    = 1024
	poolShutdownTimeout = 30 * time.Second
)

// ErrPanic wraps a panic raised by a command.
var ErrPanic = errors.New("command panicked")

// Queue defines how workers receive commands.
type Queue interface {
	Dequeue(ctx context.Context) <-chan *queue.Command
}

// InMemoryWorker executes the commands of one queue in order.
type InMemoryWorker struct {
	queue  Queue
	name   string
	done   chan struct{}
	logger logger.Logger
}

// NewInMemoryWorker creates a worker reading from q.
func NewInMemoryWorker(q Queue, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue: q,
		name:  "worker",
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run executes commands until the queue is drained and closed, or ctx ends.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	commands := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-commands:
			if !ok {
				return
			}
			w.execute(ctx, c)
		}
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) execute(ctx context.Context, c *queue.Command) {
	start := time.Now()
	err := w.run(ctx, c)
	metrics.RecordCommandLatency(c.Op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordCommandError(c.Op)
		w.logger.Debug(ctx, "command failed",
			logger.String("match_id", c.MatchID),
			logger.String("op", c.Op),
			logger.String("command_id", c.ID),
			logger.Error(err),
		)
	}
	c.Complete(err)
}

func (w *InMemoryWorker) run(ctx context.Context, c *queue.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error(ctx, "command panicked",
				logger.String("match_id", c.MatchID),
				logger.String("op", c.Op),
				logger.Any("panic", r),
			)
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return c.Run(ctx)
}

// Pool routes commands to workers by match id.
type Pool struct {
	workers []*InMemoryWorker
	queues  []*queue.InMemoryQueue
	logger  logger.Logger
}

// NewPool creates workerCount workers, each with its own queue of
// queueSize commands.
func NewPool(workerCount, queueSize int) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	if queueSize < 1 {
		queueSize = defaultQueueSize
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queues:  make([]*queue.InMemoryQueue, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		name := "worker-" + strconv.Itoa(i)
		p.queues[i] = queue.NewInMemoryQueue(queue.WithCapacity(queueSize), queue.WithName(name))
		p.workers[i] = NewInMemoryWorker(p.queues[i], WithName(name))
	}
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerCount(len(p.workers))
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Shard returns the index of the worker that owns matchID.
func (p *Pool) Shard(matchID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(matchID))
	return int(h.Sum32() % uint32(len(p.workers)))
}

// Submit queues c on the worker that owns its match.
func (p *Pool) Submit(ctx context.Context, c *queue.Command) error {
	return p.queues[p.Shard(c.MatchID)].Enqueue(ctx, c)
}

// Do runs fn on the worker that owns matchID and waits for its result.
func (p *Pool) Do(ctx context.Context, matchID, op string, fn func(ctx context.Context) error) error {
	c := queue.NewCommand(matchID, op, fn)
	if err := p.Submit(ctx, c); err != nil {
		return fmt.Errorf("submit %s for %s: %w", op, matchID, err)
	}
	return c.Wait(ctx)
}

// Pending returns the number of commands waiting across all queues.
func (p *Pool) Pending(ctx context.Context) int {
	n := 0
	for _, q := range p.queues {
		n += q.Len(ctx)
	}
	return n
}

// Shutdown closes every queue and waits for the workers to drain them.
func (p *Pool) Shutdown(ctx context.Context) error {
	for _, q := range p.queues {
		if err := q.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
