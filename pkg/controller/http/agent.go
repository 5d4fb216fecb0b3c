package http

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/usecase"
	"github.com/secmon-lab/petpal/pkg/utils/errutil"
)

type messageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Reply  string `json:"reply"`
	CaseID string `json:"case_id"`
	Status string `json:"status"`
}

type historyEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type resumeResponse struct {
	Reply   string         `json:"reply"`
	CaseID  string         `json:"case_id,omitempty"`
	History []historyEntry `json:"history"`
}

type startTaskResponse struct {
	TaskID string `json:"task_id"`
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, interfaces.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrEmptyMessage),
		errors.Is(err, usecase.ErrEmptyLabel),
		errors.Is(err, usecase.ErrSessionKeyRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func messageHandler(agent *usecase.AgentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req messageRequest
		if err := decodeJSON(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}

		reply, err := agent.HandleMessage(ctx, sessionFrom(ctx), req.Message)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to handle message"), statusOf(err))
			return
		}

		writeJSON(w, r, http.StatusOK, messageResponse{
			Reply:  reply.Text,
			CaseID: reply.CaseID.String(),
			Status: reply.Status.String(),
		})
	}
}

func resumeHandler(agent *usecase.AgentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		reply, err := agent.ResumePendingTasks(ctx, sessionFrom(ctx))
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to resume pending tasks"), statusOf(err))
			return
		}

		history := make([]historyEntry, len(reply.History))
		for i, m := range reply.History {
			history[i] = historyEntry{Role: m.Role.String(), Message: m.Content}
		}
		writeJSON(w, r, http.StatusOK, resumeResponse{
			Reply:   reply.Text,
			CaseID:  reply.CaseID.String(),
			History: history,
		})
	}
}

func startTaskHandler(tasks *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req messageRequest
		if err := decodeJSON(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}

		id, err := tasks.StartMessage(ctx, sessionFrom(ctx), req.Message)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to start task"), statusOf(err))
			return
		}

		writeJSON(w, r, http.StatusAccepted, startTaskResponse{TaskID: id.String()})
	}
}
