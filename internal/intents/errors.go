package intents

import (
	"errors"
	"fmt"
)

// RealizeFailedError reports a realize attempt that the remote system did
// not accept. The intent stays in the queue so the caller can retry -
// at-least-once semantics from the caller's perspective.
type RealizeFailedError struct {
	// Scope and TaskKey identify the affected intent.
	Scope   string
	TaskKey string

	// StatusCode is the HTTP status returned, 0 when the request never
	// completed (transport failure).
	StatusCode int

	// Err is the underlying cause, nil for plain non-2xx responses.
	Err error
}

// Error implements the error interface.
func (e *RealizeFailedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("realize failed for %s/%s: http %d", e.Scope, e.TaskKey, e.StatusCode)
	}
	return fmt.Sprintf("realize failed for %s/%s: %v", e.Scope, e.TaskKey, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *RealizeFailedError) Unwrap() error {
	return e.Err
}

// IsRealizeFailed reports whether err is a RealizeFailedError.
// Uses errors.As to handle wrapped errors.
func IsRealizeFailed(err error) bool {
	var re *RealizeFailedError
	return errors.As(err, &re)
}

// ErrInvalidIntent is returned when scope or task key is empty after
// trimming.
var ErrInvalidIntent = errors.New("intent requires non-empty scope and task key")
