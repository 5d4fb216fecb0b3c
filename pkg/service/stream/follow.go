package stream

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/model"
)

// Default polling parameters for Follow
const (
	DefaultPollInterval = time.Second
	DefaultKeepAlive    = 20 * time.Second
)

// Reader is the read side of a task stream
type Reader interface {
	Read(id model.TaskID, since int) ([]model.TaskEvent, int, bool, error)
}

// FrameKind tells a transport what to write
type FrameKind int

const (
	// FrameEvent carries one published event
	FrameEvent FrameKind = iota
	// FramePing is a keep-alive emitted after an idle period
	FramePing
	// FrameEnd closes the stream, either on completion or for an unknown task
	FrameEnd
)

// Frame is one unit handed to the transport
type Frame struct {
	Kind  FrameKind
	Event model.TaskEvent
	// NotFound is set on FrameEnd when the task did not exist
	NotFound bool
}

// FollowConfig tunes Follow. Zero values use the defaults.
type FollowConfig struct {
	PollInterval time.Duration
	KeepAlive    time.Duration
}

// Follow polls a task from index since and emits frames in publish order until the
// task is drained, the task is unknown, ctx is cancelled or emit fails.
func Follow(ctx context.Context, r Reader, id model.TaskID, since int, cfg FollowConfig, emit func(Frame) error) error {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = DefaultKeepAlive
	}

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	next := since
	lastSent := time.Now()

	for {
		events, cursor, done, err := r.Read(id, next)
		if errors.Is(err, ErrTaskNotFound) {
			return emit(Frame{Kind: FrameEnd, NotFound: true})
		}
		if err != nil {
			return goerr.Wrap(err, "failed to read task stream", goerr.V("task_id", id))
		}

		for _, ev := range events {
			if err := emit(Frame{Kind: FrameEvent, Event: ev}); err != nil {
				return err
			}
			lastSent = time.Now()
		}
		next = cursor

		if done {
			return emit(Frame{Kind: FrameEnd})
		}
		if len(events) > 0 {
			// drain the rest without waiting for the next tick
			continue
		}

		if time.Since(lastSent) >= cfg.KeepAlive {
			if err := emit(Frame{Kind: FramePing}); err != nil {
				return err
			}
			lastSent = time.Now()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
