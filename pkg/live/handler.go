package live

import (
	"context"
	"runtime/debug"

	mirrorerrors "github.com/vango-dev/mirror/internal/errors"
)

// Task is deferred work run by Session.CreateTask. ctx is cancelled when the
// session closes.
type Task func(ctx context.Context) error

// CallHandler invokes h with ev inside s. The session is current for the
// whole call. A handler that returns a Task has it scheduled with
// CreateTask, so the call returns without waiting for it.
//
// Failures never propagate: a returned error, a panic, or an invalid
// handler signature is logged and reported to the client as one
// error-level log message. The failure is also returned for callers that
// want to inspect it.
func CallHandler[E any](s *Session, h Handler[E], ev E) (err error) {
	s.Do(func() {
		err = invoke(s, h, ev)
		if err != nil {
			s.reportFailure(err)
		}
	})
	return err
}

func invoke[E any](s *Session, h Handler[E], ev E) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	var task Task
	switch fn := h.(type) {
	case nil:
		return nil
	case func():
		fn()
	case func(E):
		fn(ev)
	case func() error:
		err = fn()
	case func(E) error:
		err = fn(ev)
	case func() Task:
		task = fn()
	case func(E) Task:
		task = fn(ev)
	default:
		var zero E
		return mirrorerrors.New("E103").WithDetailf("got %T for %T event", h, zero)
	}
	if task != nil {
		s.CreateTask(task)
	}
	return err
}
