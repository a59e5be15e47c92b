package worker_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
	"github.com/TheFriendRequest/Event-Service/internal/worker"
)

func TestPool_ExecutesSubmittedJobs(t *testing.T) {
	pool := worker.NewPool(worker.WithConcurrency(2), worker.WithQueueCapacity(8))
	pool.Start(context.Background())
	defer pool.Stop()

	var executed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		err := pool.Submit(func(ctx context.Context) {
			executed.Add(1)
			wg.Done()
		})
		require.NoError(t, err)
	}

	wg.Wait()
	assert.Equal(t, int32(5), executed.Load())
}

func TestPool_RejectsWhenQueueFull(t *testing.T) {
	pool := worker.NewPool(worker.WithConcurrency(1), worker.WithQueueCapacity(1))
	pool.Start(context.Background())
	defer pool.Stop()

	release := make(chan struct{})
	started := make(chan struct{})

	// Occupy the single worker.
	require.NoError(t, pool.Submit(func(ctx context.Context) {
		close(started)
		<-release
	}))
	<-started

	// Fill the single queue slot.
	require.NoError(t, pool.Submit(func(ctx context.Context) {}))

	// Next submission must be rejected, not queued.
	err := pool.Submit(func(ctx context.Context) {})
	assert.ErrorIs(t, err, domain.ErrQueueFull)

	close(release)
}

func TestPool_RejectsWhenNotStarted(t *testing.T) {
	pool := worker.NewPool()

	err := pool.Submit(func(ctx context.Context) {})
	assert.ErrorIs(t, err, domain.ErrQueueFull)
}

func TestPool_StopWaitsForInFlightJobs(t *testing.T) {
	pool := worker.NewPool(worker.WithConcurrency(1), worker.WithQueueCapacity(1))
	pool.Start(context.Background())

	started := make(chan struct{})
	var finished atomic.Bool
	require.NoError(t, pool.Submit(func(ctx context.Context) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	}))

	<-started
	pool.Stop()
	assert.True(t, finished.Load())
}

func TestPool_RejectsAfterStop(t *testing.T) {
	pool := worker.NewPool()
	pool.Start(context.Background())
	pool.Stop()

	err := pool.Submit(func(ctx context.Context) {})
	assert.ErrorIs(t, err, domain.ErrQueueFull)
}
