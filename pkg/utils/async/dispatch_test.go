package async_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/utils/async"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDispatch(t *testing.T) {
	t.Run("runs handler in background", func(t *testing.T) {
		done := make(chan struct{})
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			close(done)
			return nil
		})

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler was not called")
		}
	})

	t.Run("handler context is not cancelled with parent", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		cancel()

		errCh := make(chan error, 1)
		async.Dispatch(parent, func(ctx context.Context) error {
			errCh <- ctx.Err()
			return nil
		})
		gt.NoError(t, <-errCh)
	})

	t.Run("recovers from panic", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			panic("boom")
		})
		wg.Wait()
	})
}

func TestPool(t *testing.T) {
	t.Run("limits concurrency", func(t *testing.T) {
		pool := async.NewPool(2)

		var active, peak atomic.Int32
		for range 6 {
			pool.Go(context.Background(), func(ctx context.Context) error {
				n := active.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				active.Add(-1)
				return nil
			})
		}
		pool.Wait()

		gt.Number(t, peak.Load()).LessOrEqual(2)
		gt.Number(t, peak.Load()).GreaterOrEqual(1)
	})

	t.Run("errors do not stop the pool", func(t *testing.T) {
		pool := async.NewPool(0)
		var calls atomic.Int32
		for range 3 {
			pool.Go(context.Background(), func(ctx context.Context) error {
				calls.Add(1)
				return errors.New("failed")
			})
		}
		pool.Wait()
		gt.Value(t, calls.Load()).Equal(int32(3))
	})
}
