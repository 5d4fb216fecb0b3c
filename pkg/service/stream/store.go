package stream

import (
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

var (
	// ErrTaskNotFound is returned for IDs never created, already drained or reaped
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskClosed is returned when publishing to a task marked done
	ErrTaskClosed = errors.New("task already done")
)

type entry struct {
	mu      sync.Mutex
	record  model.TaskRecord
	removed bool
}

// Store buffers events of background tasks until a reader drains them.
// Appends are serialized per task. No code path waits for the store lock while holding an entry lock.
type Store struct {
	mu    sync.RWMutex
	tasks map[model.TaskID]*entry
	now   func() time.Time
}

var _ interfaces.TaskStream = &Store{}

// Option is a functional option for Store configuration
type Option func(*Store)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store
func New(opts ...Option) *Store {
	s := &Store{
		tasks: make(map[model.TaskID]*entry),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a pending task. The task is readable as soon as Create returns.
func (s *Store) Create() model.TaskID {
	id := model.NewTaskID()
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = &entry{
		record: model.TaskRecord{
			ID:        id,
			Status:    types.TaskStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	return id
}

func (s *Store) lookup(id model.TaskID) (*entry, error) {
	s.mu.RLock()
	e, ok := s.tasks[id]
	s.mu.RUnlock()
	if !ok {
		return nil, goerr.Wrap(ErrTaskNotFound, "unknown task", goerr.V("task_id", id))
	}
	return e, nil
}

// Publish appends an event. Events get consecutive indexes starting at 0.
func (s *Store) Publish(id model.TaskID, eventType types.TaskEventType, message string, data map[string]any) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return goerr.Wrap(ErrTaskNotFound, "task was removed", goerr.V("task_id", id))
	}
	if e.record.Status.IsDone() {
		return goerr.Wrap(ErrTaskClosed, "cannot publish to finished task", goerr.V("task_id", id))
	}

	now := s.now().UTC()
	e.record.Events = append(e.record.Events, model.TaskEvent{
		Index:     len(e.record.Events),
		Type:      eventType,
		Message:   message,
		Data:      data,
		CreatedAt: now,
	})
	e.record.UpdatedAt = now
	return nil
}

// MarkDone finishes a task with a terminal status
func (s *Store) MarkDone(id model.TaskID, status types.TaskStatus) error {
	if !status.IsDone() {
		return goerr.New("status is not terminal", goerr.V("status", status))
	}

	e, err := s.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return goerr.Wrap(ErrTaskNotFound, "task was removed", goerr.V("task_id", id))
	}
	if e.record.Status.IsDone() {
		return goerr.Wrap(ErrTaskClosed, "task already finished", goerr.V("task_id", id))
	}

	e.record.Status = status
	e.record.UpdatedAt = s.now().UTC()
	return nil
}

// Read returns the events from index since and the index to resume from.
// done is reported only once a finished task has nothing left after since;
// that read deletes the task, so later reads return ErrTaskNotFound.
func (s *Store) Read(id model.TaskID, since int) ([]model.TaskEvent, int, bool, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, since, false, err
	}

	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return nil, since, false, goerr.Wrap(ErrTaskNotFound, "task was removed", goerr.V("task_id", id))
	}

	total := len(e.record.Events)
	if since < 0 {
		since = 0
	}
	if since > total {
		since = total
	}

	if since < total {
		events := make([]model.TaskEvent, total-since)
		copy(events, e.record.Events[since:])
		e.mu.Unlock()
		return events, total, false, nil
	}

	if !e.record.Status.IsDone() {
		e.mu.Unlock()
		return nil, total, false, nil
	}

	e.removed = true
	e.mu.Unlock()

	s.mu.Lock()
	delete(s.tasks, id)
	s.mu.Unlock()

	return nil, total, true, nil
}

// Status returns the current status of a task
func (s *Store) Status(id model.TaskID) (types.TaskStatus, error) {
	e, err := s.lookup(id)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record.Status, nil
}

// Len returns the number of buffered tasks
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Sweep removes tasks with no activity for longer than ttl and returns how many it removed
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := s.now().UTC().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.tasks {
		e.mu.Lock()
		if e.record.UpdatedAt.Before(cutoff) {
			e.removed = true
			delete(s.tasks, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}
