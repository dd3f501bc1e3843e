package live

import (
	"errors"
	"fmt"

	mirrorerrors "github.com/vango-dev/mirror/internal/errors"
)

// Sentinel errors for session operations.
var (
	// ErrSessionClosed is returned when an operation is attempted on a closed session.
	ErrSessionClosed = errors.New("live: session closed")

	// ErrBadRequest matches every BadRequestError through errors.Is.
	ErrBadRequest = errors.New("live: bad request")

	// ErrNoConnection is returned when a session has no connection to flush to.
	ErrNoConnection = errors.New("live: no connection")
)

// BadRequestError is a recoverable failure caused by an inbound message:
// unknown element, unsupported event, malformed payload. It is shown to the
// client and leaves the session usable.
type BadRequestError struct {
	Event string
	Err   *mirrorerrors.Error
}

func (e *BadRequestError) Error() string {
	if e.Event == "" {
		return "bad request: " + e.Err.Error()
	}
	return fmt.Sprintf("bad request in %q event: %s", e.Event, e.Err.Error())
}

// Unwrap returns the coded error.
func (e *BadRequestError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrBadRequest.
func (e *BadRequestError) Is(target error) bool {
	return target == ErrBadRequest
}

func badRequest(event, code, format string, args ...any) *BadRequestError {
	return &BadRequestError{
		Event: event,
		Err:   mirrorerrors.New(code).WithDetailf(format, args...),
	}
}

// PanicError carries a recovered handler panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// programmingError panics with a coded error. Used for violated tree
// invariants, which must never be silently ignored.
func programmingError(code, format string, args ...any) {
	panic(mirrorerrors.New(code).WithDetailf(format, args...))
}
