package stream_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
	"github.com/secmon-lab/petpal/pkg/service/stream"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStoreReadBeforeAnyEvent(t *testing.T) {
	store := stream.New()
	id := store.Create()

	events, next, done, err := store.Read(id, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, events).Length(0)
	gt.Value(t, next).Equal(0)
	gt.Bool(t, done).False()
}

func TestStoreUnknownTask(t *testing.T) {
	store := stream.New()

	_, _, _, err := store.Read(model.TaskID("missing"), 0)
	gt.Error(t, err).Is(stream.ErrTaskNotFound)

	gt.Error(t, store.Publish("missing", types.TaskEventProgress, "x", nil)).Is(stream.ErrTaskNotFound)
	gt.Error(t, store.MarkDone("missing", types.TaskStatusCompleted)).Is(stream.ErrTaskNotFound)
}

func TestStoreDrainDeletes(t *testing.T) {
	store := stream.New()
	id := store.Create()

	gt.NoError(t, store.Publish(id, types.TaskEventProgress, "Parsing message...", nil)).Required()
	gt.NoError(t, store.Publish(id, types.TaskEventReply, "✅ Noted.", map[string]any{"case_id": "GUEST-ABCDEF"})).Required()

	events, next, done, err := store.Read(id, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, events).Length(2).Required()
	gt.Value(t, events[0].Index).Equal(0)
	gt.Value(t, events[1].Index).Equal(1)
	gt.Value(t, events[1].Type).Equal(types.TaskEventReply)
	gt.Value(t, next).Equal(2)
	gt.Bool(t, done).False()

	gt.NoError(t, store.Publish(id, types.TaskEventProgress, "late", nil)).Required()
	gt.NoError(t, store.MarkDone(id, types.TaskStatusCompleted)).Required()

	// remaining events come first, without done
	events, next, done, err = store.Read(id, next)
	gt.NoError(t, err).Required()
	gt.Array(t, events).Length(1).Required()
	gt.Value(t, events[0].Message).Equal("late")
	gt.Value(t, next).Equal(3)
	gt.Bool(t, done).False()

	// fully consumed: completion is observed and the record is deleted
	events, _, done, err = store.Read(id, next)
	gt.NoError(t, err).Required()
	gt.Array(t, events).Length(0)
	gt.Bool(t, done).True()
	gt.Value(t, store.Len()).Equal(0)

	_, _, _, err = store.Read(id, next)
	gt.Error(t, err).Is(stream.ErrTaskNotFound)
}

func TestStorePublishAfterDone(t *testing.T) {
	store := stream.New()
	id := store.Create()

	gt.NoError(t, store.MarkDone(id, types.TaskStatusError)).Required()
	gt.Error(t, store.Publish(id, types.TaskEventProgress, "too late", nil)).Is(stream.ErrTaskClosed)
	gt.Error(t, store.MarkDone(id, types.TaskStatusCompleted)).Is(stream.ErrTaskClosed)

	status, err := store.Status(id)
	gt.NoError(t, err).Required()
	gt.Value(t, status).Equal(types.TaskStatusError)
}

func TestStoreMarkDoneRequiresTerminalStatus(t *testing.T) {
	store := stream.New()
	id := store.Create()

	gt.Error(t, store.MarkDone(id, types.TaskStatusPending))
}

func TestStoreReadClampsIndex(t *testing.T) {
	store := stream.New()
	id := store.Create()
	gt.NoError(t, store.Publish(id, types.TaskEventProgress, "one", nil)).Required()

	events, next, _, err := store.Read(id, -5)
	gt.NoError(t, err).Required()
	gt.Array(t, events).Length(1)
	gt.Value(t, next).Equal(1)

	events, next, _, err = store.Read(id, 99)
	gt.NoError(t, err).Required()
	gt.Array(t, events).Length(0)
	gt.Value(t, next).Equal(1)
}

func TestStoreConcurrentPublishKeepsOrder(t *testing.T) {
	store := stream.New()
	id := store.Create()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_ = store.Publish(id, types.TaskEventProgress, fmt.Sprintf("%d", i), nil)
		}
		_ = store.MarkDone(id, types.TaskStatusCompleted)
	}()

	var got []model.TaskEvent
	next := 0
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		events, cursor, done, err := store.Read(id, next)
		gt.NoError(t, err).Required()
		got = append(got, events...)
		next = cursor
		if done {
			break
		}
	}
	wg.Wait()

	gt.Array(t, got).Length(n).Required()
	for i, ev := range got {
		gt.Value(t, ev.Index).Equal(i)
		gt.Value(t, ev.Message).Equal(fmt.Sprintf("%d", i))
	}
	gt.Value(t, store.Len()).Equal(0)
}

func TestStoreSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := stream.New(stream.WithClock(func() time.Time { return now }))

	stale := store.Create()
	now = now.Add(10 * time.Minute)
	active := store.Create()

	gt.Value(t, store.Sweep(5*time.Minute)).Equal(1)
	gt.Value(t, store.Len()).Equal(1)

	_, _, _, err := store.Read(stale, 0)
	gt.Error(t, err).Is(stream.ErrTaskNotFound)
	_, _, _, err = store.Read(active, 0)
	gt.NoError(t, err)
}
