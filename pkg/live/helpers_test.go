package live_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	mirrorerrors "github.com/vango-dev/mirror/internal/errors"
	"github.com/vango-dev/mirror/pkg/live"
	"github.com/vango-dev/mirror/pkg/message"
	"github.com/vango-dev/mirror/pkg/vtest"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newSession(t *testing.T, opts ...live.Option) (*live.Session, *vtest.Recorder) {
	t.Helper()
	return vtest.NewSession(t, append([]live.Option{live.WithLogger(quiet)}, opts...)...)
}

func flush(t *testing.T, s *live.Session) {
	t.Helper()
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

// mount mounts n as the session root, flushes and forgets the frames.
func mount(t *testing.T, s *live.Session, rec *vtest.Recorder, n live.Node) {
	t.Helper()
	s.SetRoot(n)
	flush(t, s)
	rec.Reset()
}

// expectCode runs fn and checks that it panics with a coded error.
func expectCode(t *testing.T, code string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %s", code)
		}
		err, ok := r.(error)
		if !ok || !mirrorerrors.HasCode(err, code) {
			t.Fatalf("panic = %v, want %s", r, code)
		}
	}()
	fn()
}

func str(m message.Message, key string) string {
	s, _ := m.GetString(key)
	return s
}

func withoutFlush(msgs []message.Message) []message.Message {
	out := msgs[:0:0]
	for _, m := range msgs {
		if m.Event() != message.EventFlush {
			out = append(out, m)
		}
	}
	return out
}
