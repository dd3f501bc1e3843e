package server

import (
	"errors"
	"fmt"
)

// Sentinel errors for common connection and server error conditions.
var (
	// ErrEventQueueFull is returned when a connection's event queue is full
	// and an inbound frame is dropped.
	ErrEventQueueFull = errors.New("server: event queue full")

	// ErrMaxSessionsReached is returned when the maximum number of sessions is reached.
	ErrMaxSessionsReached = errors.New("server: max sessions reached")

	// ErrConnectionClosed is returned when writing to a closed WebSocket connection.
	ErrConnectionClosed = errors.New("server: connection closed")

	// ErrUploadsDisabled is returned when an upload gate is registered but
	// the server has no upload store.
	ErrUploadsDisabled = errors.New("server: uploads disabled")

	// ErrUnknownUpload is returned for a POST to an upload URL nobody registered.
	ErrUnknownUpload = errors.New("server: unknown upload endpoint")

	// ErrServerClosed is returned when connecting to a server that is shutting down.
	ErrServerClosed = errors.New("server: closed")
)

// SessionError wraps an error with session context for debugging.
type SessionError struct {
	SessionID string
	Op        string // Operation that failed
	Err       error  // Underlying error
}

// Error returns the error message with session context.
func (e *SessionError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("server: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("server: session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// NewSessionError creates a new SessionError.
func NewSessionError(sessionID, op string, err error) *SessionError {
	return &SessionError{
		SessionID: sessionID,
		Op:        op,
		Err:       err,
	}
}
