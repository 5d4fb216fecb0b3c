package types

import "fmt"

// TaskStatus represents the lifecycle state of a background task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusError     TaskStatus = "error"
)

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusError:
		return true
	default:
		return false
	}
}

// IsDone reports whether the task reached a terminal status
func (s TaskStatus) IsDone() bool {
	return s == TaskStatusCompleted || s == TaskStatusError
}

func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus parses a string into a TaskStatus
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid task status: %s", s)
	}
	return status, nil
}

// TaskEventType classifies a progress message published to a task stream
type TaskEventType string

const (
	TaskEventProgress TaskEventType = "progress"
	TaskEventReply    TaskEventType = "reply"
	TaskEventError    TaskEventType = "error"
)

func (t TaskEventType) String() string {
	return string(t)
}
