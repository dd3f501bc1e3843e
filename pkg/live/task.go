package live

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/vango-dev/mirror/pkg/reactive"
)

// CreateTask runs t in a new goroutine inside the session's monitor, with
// the session current for its whole duration, and flushes when it
// completes. A returned error other than context cancellation is reported
// like a handler failure.
//
// Tasks keep running when the subtree that started them is unmounted; their
// context is cancelled by Close.
func (s *Session) CreateTask(t Task) {
	if t == nil || s.closed.Load() {
		return
	}
	s.tasks.Add(1)
	go s.runTask(t)
}

// taskScope binds a session to a task goroutine. Await only releases the
// monitor under a task scope.
type taskScope struct {
	session *Session
}

func (s *Session) runTask(t Task) {
	defer s.tasks.Done()

	func() {
		s.turn.Lock()
		defer s.turn.Unlock()
		reactive.WithCtx(&taskScope{session: s}, func() {
			err := s.safeRun(t)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.reportFailure(err)
			}
		})
	}()

	if err := s.Flush(s.ctx); err != nil && !errors.Is(err, ErrSessionClosed) {
		s.Logger().Warn("task flush failed", "error", err)
	}
}

func (s *Session) safeRun(t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return t(s.ctx)
}

// Wait blocks until every task created so far has finished. It must not be
// called from inside the session.
func (s *Session) Wait() {
	s.tasks.Wait()
}

// Await runs blocking work outside the current session's monitor, so other
// handlers of the session can run meanwhile, and re-enters the monitor
// before returning. fn runs with no session current. Without a current
// session Await just calls fn.
//
// Inside a session, only a task may Await, and not while it is mounting or
// unmounting elements. Anywhere else Await panics with E112.
//
//	live.Await(func() { resp, err = client.Do(req) })
func Await(fn func()) {
	s := Current()
	if s == nil {
		fn()
		return
	}
	if _, ok := reactive.CurrentCtx().(*taskScope); !ok {
		programmingError("E112", "Await called from a handler")
	}
	if s.mutating > 0 {
		programmingError("E112", "Await called during mount or unmount")
	}
	s.turn.Unlock()
	defer s.turn.Lock()
	reactive.WithCtx(nil, fn)
}

// Sleep pauses for d outside the session's monitor. It returns ctx.Err()
// if ctx is done first.
func Sleep(ctx context.Context, d time.Duration) error {
	var err error
	Await(func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return err
}
