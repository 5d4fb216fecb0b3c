package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

// TaskID identifies a background task
type TaskID string

// NewTaskID generates a new TaskID
func NewTaskID() TaskID {
	return TaskID(uuid.Must(uuid.NewV7()).String())
}

func (id TaskID) String() string {
	return string(id)
}

// TaskEvent is one progress message of a background task
type TaskEvent struct {
	Index     int                 `json:"index"`
	Type      types.TaskEventType `json:"type"`
	Message   string              `json:"message"`
	Data      map[string]any      `json:"data,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// TaskRecord is the buffered state of a background task
type TaskRecord struct {
	ID        TaskID
	Status    types.TaskStatus
	Events    []TaskEvent
	CreatedAt time.Time
	UpdatedAt time.Time
}
