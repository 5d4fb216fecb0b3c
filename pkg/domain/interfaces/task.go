package interfaces

import (
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

// TaskStream buffers progress events of background tasks for streaming readers.
// A single producer appends to a task; readers drain it and the final drain deletes it.
type TaskStream interface {
	Create() model.TaskID
	Publish(id model.TaskID, eventType types.TaskEventType, message string, data map[string]any) error
	MarkDone(id model.TaskID, status types.TaskStatus) error
	Read(id model.TaskID, since int) (events []model.TaskEvent, next int, done bool, err error)
}
