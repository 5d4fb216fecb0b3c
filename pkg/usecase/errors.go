package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Input errors
	ErrEmptyMessage = errors.New("message is empty")
	ErrEmptyLabel   = errors.New("label text is empty")

	// Session errors
	ErrSessionKeyRequired = errors.New("session key is required")
)

// Context keys for error values
const (
	CaseIDKey     = "case_id"
	SessionKeyKey = "session_key"
	TaskIDKey     = "task_id"
)
