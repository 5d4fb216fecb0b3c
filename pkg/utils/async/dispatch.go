package async

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/utils/logging"
	"golang.org/x/sync/semaphore"
)

// detach creates a background context that keeps the caller's logger.
func detach(ctx context.Context) context.Context {
	bgCtx := context.Background()
	if logger := logging.From(ctx); logger != nil {
		bgCtx = logging.With(bgCtx, logger)
	}
	return bgCtx
}

func run(ctx context.Context, handler func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Error("panic in async handler", "panic", r)
		}
	}()

	if err := handler(ctx); err != nil {
		logging.From(ctx).Error("async handler failed", "error", goerr.Unwrap(err))
	}
}

// Dispatch executes a handler function asynchronously in a new goroutine.
// It creates a background context and handles errors and panics.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := detach(ctx)
	go run(bgCtx, handler)
}

// Pool runs handlers in the background with at most size handlers active at once.
// Handlers beyond the limit wait in their own goroutine for a free slot.
type Pool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewPool creates a Pool. A size below 1 is treated as 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Go schedules handler on the pool. Like Dispatch, the handler receives a
// detached context that only carries the caller's logger.
func (p *Pool) Go(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := detach(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(bgCtx, 1); err != nil {
			logging.From(bgCtx).Error("failed to acquire worker slot", "error", err)
			return
		}
		defer p.sem.Release(1)
		run(bgCtx, handler)
	}()
}

// Wait blocks until every scheduled handler has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
