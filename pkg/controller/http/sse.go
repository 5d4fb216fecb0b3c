package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/service/stream"
	"github.com/secmon-lab/petpal/pkg/utils/errutil"
	"github.com/secmon-lab/petpal/pkg/utils/logging"
	"github.com/secmon-lab/petpal/pkg/utils/safe"
)

// SSE event names
const (
	sseEventPing = "ping"
	sseEventEnd  = "end"
)

type endPayload struct {
	Reason string `json:"reason"`
}

// startIndex reads the resume position from Last-Event-ID or the since query
func startIndex(r *http.Request) int {
	if v := r.Header.Get("Last-Event-ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n + 1
		}
	}
	if v := r.URL.Query().Get("since"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return 0
}

func writeSSE(w http.ResponseWriter, id string, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal SSE payload")
	}
	if id != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", id); err != nil {
			return goerr.Wrap(err, "failed to write SSE id")
		}
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return goerr.Wrap(err, "failed to write SSE frame")
	}
	safe.Flush(w)
	return nil
}

func streamHandler(tasks stream.Reader, cfg stream.FollowConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := model.TaskID(chi.URLParam(r, "taskID"))
		logger := logging.From(ctx).With("task_id", id)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		safe.Flush(w)

		err := stream.Follow(ctx, tasks, id, startIndex(r), cfg, func(f stream.Frame) error {
			switch f.Kind {
			case stream.FrameEvent:
				return writeSSE(w, strconv.Itoa(f.Event.Index), f.Event.Type.String(), f.Event)
			case stream.FramePing:
				return writeSSE(w, "", sseEventPing, struct{}{})
			default:
				reason := "completed"
				if f.NotFound {
					reason = "not_found"
				}
				return writeSSE(w, "", sseEventEnd, endPayload{Reason: reason})
			}
		})

		switch {
		case err == nil:
			logger.Debug("task stream finished")
		case errors.Is(err, context.Canceled):
			logger.Debug("task stream client disconnected")
		default:
			_ = errutil.Handle(ctx, err, "task stream failed")
		}
	}
}
