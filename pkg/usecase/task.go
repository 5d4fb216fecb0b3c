package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/agent/tool"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
	"github.com/secmon-lab/petpal/pkg/utils/async"
	"github.com/secmon-lab/petpal/pkg/utils/errutil"
	"github.com/secmon-lab/petpal/pkg/utils/logging"
)

// Defaults for background turns
const (
	DefaultPoolSize    = 4
	DefaultTaskTimeout = 2 * time.Minute
)

// TaskUseCase runs turns in the background and reports their progress to a task stream
type TaskUseCase struct {
	agent   *AgentUseCase
	stream  interfaces.TaskStream
	pool    *async.Pool
	timeout time.Duration
}

// NewTaskUseCase creates a TaskUseCase. Non-positive sizes and timeouts use the defaults.
func NewTaskUseCase(agent *AgentUseCase, stream interfaces.TaskStream, poolSize int, timeout time.Duration) *TaskUseCase {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	if timeout <= 0 {
		timeout = DefaultTaskTimeout
	}
	return &TaskUseCase{
		agent:   agent,
		stream:  stream,
		pool:    async.NewPool(poolSize),
		timeout: timeout,
	}
}

// StartMessage schedules a turn for text and returns its task handle immediately.
// The task ends with one reply or error event.
func (uc *TaskUseCase) StartMessage(ctx context.Context, sess Session, text string) (model.TaskID, error) {
	if sess.Key == "" {
		return "", goerr.Wrap(ErrSessionKeyRequired, "cannot start task")
	}
	if strings.TrimSpace(text) == "" {
		return "", goerr.Wrap(ErrEmptyMessage, "cannot start task", goerr.V(SessionKeyKey, sess.Key))
	}

	id := uc.stream.Create()
	ctx = logging.With(ctx, logging.From(ctx).With(TaskIDKey, id))
	logging.From(ctx).Info("background turn scheduled")

	uc.pool.Go(ctx, func(ctx context.Context) error {
		return uc.run(ctx, id, sess, text)
	})
	return id, nil
}

func (uc *TaskUseCase) run(ctx context.Context, id model.TaskID, sess Session, text string) (err error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			_ = errutil.Handle(ctx, goerr.New("background turn panicked", goerr.V(TaskIDKey, id), goerr.V("panic", r)), "background turn panicked")
			err = uc.fail(ctx, id, FailureMessage)
		}
	}()

	ctx = tool.WithUpdate(ctx, func(ctx context.Context, message string) {
		if err := uc.stream.Publish(id, types.TaskEventProgress, message, nil); err != nil {
			logging.From(ctx).Warn("failed to publish progress", "error", err)
		}
	})

	reply, err := uc.agent.HandleMessage(ctx, sess, text)
	if err != nil {
		_ = errutil.Handle(ctx, err, "background turn failed")
		if errors.Is(err, interfaces.ErrConflict) {
			return uc.fail(ctx, id, ConflictMessage)
		}
		return uc.fail(ctx, id, FailureMessage)
	}

	data := map[string]any{
		"case_id": reply.CaseID.String(),
		"status":  reply.Status.String(),
	}
	if err := uc.stream.Publish(id, types.TaskEventReply, reply.Text, data); err != nil {
		return goerr.Wrap(err, "failed to publish reply", goerr.V(TaskIDKey, id))
	}
	return uc.markDone(id, types.TaskStatusCompleted)
}

// fail ends the task with an error event carrying message
func (uc *TaskUseCase) fail(ctx context.Context, id model.TaskID, message string) error {
	if err := uc.stream.Publish(id, types.TaskEventError, message, nil); err != nil {
		logging.From(ctx).Warn("failed to publish error event", "error", err)
	}
	return uc.markDone(id, types.TaskStatusError)
}

func (uc *TaskUseCase) markDone(id model.TaskID, status types.TaskStatus) error {
	if err := uc.stream.MarkDone(id, status); err != nil {
		return goerr.Wrap(err, "failed to mark task done", goerr.V(TaskIDKey, id), goerr.V("status", status))
	}
	return nil
}

// Wait blocks until every scheduled turn has finished
func (uc *TaskUseCase) Wait() {
	uc.pool.Wait()
}
