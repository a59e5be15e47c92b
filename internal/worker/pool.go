// Package worker provides a bounded pool of background executors for
// deferred tasks. The pool replaces goroutine-per-submission dispatch: a
// fixed number of workers drain a fixed-capacity queue, and submissions
// beyond capacity are rejected so a burst cannot spawn unbounded work.
package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
)

// Job is one unit of deferred work. The context is the one the pool was
// started with; an in-flight job is allowed to finish on Stop.
type Job func(ctx context.Context)

// Pool manages a set of concurrent worker goroutines draining a bounded
// submission queue.
type Pool struct {
	concurrency int
	queue       chan Job
	logger      *slog.Logger

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithConcurrency sets the number of concurrent worker goroutines.
func WithConcurrency(n int) Option {
	return func(p *Pool) { p.concurrency = n }
}

// WithQueueCapacity sets how many jobs may wait for a worker.
func WithQueueCapacity(n int) Option {
	return func(p *Pool) { p.queue = make(chan Job, n) }
}

// WithLogger sets the pool's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) { p.logger = logger }
}

// NewPool creates a worker pool.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		concurrency: 4,
		queue:       make(chan Job, 64),
		logger:      slog.Default(),
		stopCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the worker goroutines. It returns immediately.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true

	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}

	p.logger.Info("worker pool started",
		"concurrency", p.concurrency,
		"queue_capacity", cap(p.queue),
	)
}

// Submit enqueues a job without blocking. Returns ErrQueueFull when the
// queue is at capacity or the pool is not running.
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if !running {
		return domain.ErrQueueFull
	}

	select {
	case p.queue <- job:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Stop rejects further submissions and waits for in-flight jobs to finish.
// Jobs still queued but not yet started are abandoned; their ledger rows
// keep whatever state they last reached.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case job := <-p.queue:
			job(ctx)
		}
	}
}
