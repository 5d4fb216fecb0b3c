package interfaces

import "errors"

// Sentinel errors shared by every repository backend
var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a save is based on a stale version of the record
	ErrConflict = errors.New("version conflict")

	// ErrAlreadyExists is returned when a unique attribute is already taken
	ErrAlreadyExists = errors.New("already exists")
)
