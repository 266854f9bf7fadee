package session

import "errors"

var (
	// ErrNotFound is returned for unknown or expired session IDs.
	ErrNotFound = errors.New("session not found")
	// ErrBusy is returned when a session already has an operation in flight.
	ErrBusy = errors.New("session has an operation in progress")
	// ErrStale is returned when a session was restarted while an operation was in flight.
	// The operation's result is discarded.
	ErrStale = errors.New("session was restarted; result discarded")
	// ErrWrongStage is returned when an operation is not valid for the current stage.
	ErrWrongStage = errors.New("operation not allowed in current stage")
)
