package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/petpal/pkg/utils/logging"
)

// Sweeper removes abandoned task records
type Sweeper interface {
	Sweep(ttl time.Duration) int
}

// TaskReaperWorker periodically removes task records nobody drained within the TTL.
//
// Architecture assumptions:
// - Single server instance; the task store lives in process memory
type TaskReaperWorker struct {
	store    Sweeper
	interval time.Duration
	ttl      time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewTaskReaperWorker creates a new worker sweeping store every interval
func NewTaskReaperWorker(store Sweeper, interval, ttl time.Duration) *TaskReaperWorker {
	return &TaskReaperWorker{
		store:    store,
		interval: interval,
		ttl:      ttl,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop without blocking
func (w *TaskReaperWorker) Start(ctx context.Context) error {
	logging.Default().Info("Task reaper worker starting",
		"interval", w.interval.String(),
		"ttl", w.ttl.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *TaskReaperWorker) Stop() {
	logging.Default().Info("Task reaper worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Task reaper worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *TaskReaperWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()

		case <-w.stopCh:
			logging.Default().Info("Task reaper worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Task reaper worker context cancelled")
			return
		}
	}
}

func (w *TaskReaperWorker) sweep() {
	if n := w.store.Sweep(w.ttl); n > 0 {
		logging.Default().Info("Reaped abandoned tasks", "count", n, "ttl", w.ttl.String())
	}
}
