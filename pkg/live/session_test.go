package live_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/mirror/el"
	"github.com/vango-dev/mirror/internal/ids"
	"github.com/vango-dev/mirror/pkg/live"
	"github.com/vango-dev/mirror/pkg/message"
	"github.com/vango-dev/mirror/pkg/vtest"
)

func TestCurrentIsBoundInsideDo(t *testing.T) {
	s, _ := newSession(t)
	if live.Current() != nil {
		t.Fatal("session current outside Do")
	}
	s.Do(func() {
		if live.Current() != s {
			t.Error("session not current inside Do")
		}
		s.Do(func() {
			if live.Current() != s {
				t.Error("nested Do lost the session")
			}
		})
	})
	if live.Current() != nil {
		t.Error("binding leaked after Do")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	a, _ := newSession(t)
	b, _ := newSession(t)

	var wg sync.WaitGroup
	for _, s := range []*live.Session{a, b} {
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(s *live.Session) {
				defer wg.Done()
				s.Do(func() {
					if live.Current() != s {
						t.Error("observed another session's binding")
					}
				})
			}(s)
		}
	}
	wg.Wait()
}

func TestFlushEndsWithMarker(t *testing.T) {
	s, rec := newSession(t)
	s.SetTitle("one")
	s.SetTheme("dark")
	flush(t, s)

	msgs := rec.Messages()
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Event() != message.EventTitle || msgs[1].Event() != message.EventTheme {
		t.Errorf("messages out of order: %#v", msgs)
	}
	if msgs[2].Event() != message.EventFlush {
		t.Errorf("last message = %q, want flush", msgs[2].Event())
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after flush", s.Pending())
	}
}

func TestEmptyFlushSendsNothing(t *testing.T) {
	s, rec := newSession(t)
	flush(t, s)
	if n := len(rec.Frames()); n != 0 {
		t.Errorf("empty flush sent %d frames", n)
	}
}

func TestFlushReportsSendError(t *testing.T) {
	s, rec := newSession(t)
	boom := errors.New("broken pipe")
	rec.FailSends(boom)
	s.SetTitle("x")

	if err := s.Flush(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Flush() = %v, want %v", err, boom)
	}
}

func TestUnencodableMessageIsDropped(t *testing.T) {
	s, rec := newSession(t)
	s.SetTitle("before")
	s.Execute(live.NewJSFunction(nil, "return 1"), []any{make(chan int)}, "")
	s.SetTitle("after")
	flush(t, s)

	titles := rec.Events(message.EventTitle)
	if len(titles) != 2 {
		t.Errorf("got %d titles, want 2", len(titles))
	}
	if len(rec.Events(message.EventExecute)) != 0 {
		t.Error("unencodable execute was sent")
	}
	logs := rec.Events(message.EventLog)
	if len(logs) != 1 || str(logs[0], "level") != string(message.LevelError) {
		t.Errorf("logs = %#v", logs)
	}
}

func TestShareRegistersBeforeSend(t *testing.T) {
	s, rec := newSession(t)
	url := s.Share("/var/data/report.pdf")
	if !strings.HasPrefix(url, "/tmp/") {
		t.Errorf("url = %q", url)
	}
	if _, ok := rec.SharedFile(url); ok {
		t.Fatal("shared before flush")
	}
	s.Execute(live.NewJSFunction([]string{"url"}, "window.open(url)"), []any{url}, "")
	flush(t, s)

	path, ok := rec.SharedFile(url)
	if !ok || path != "/var/data/report.pdf" {
		t.Errorf("SharedFile = %q, %v", path, ok)
	}
}

func TestUploadGateRunsHandlerAsTask(t *testing.T) {
	s, rec := newSession(t)

	var got []live.UploadedFile
	label := el.Span("waiting")
	mount(t, s, rec, label)

	url := s.CreateUploadGate(func(ev live.UploadEvent) {
		got = ev.Files
		label.SetText("received")
	})
	if !strings.HasPrefix(url, "/upload/") {
		t.Errorf("url = %q", url)
	}
	flush(t, s)

	if !rec.Upload(url, live.UploadedFile{Name: "a.txt", TempPath: "/tmp/a", Size: 3}) {
		t.Fatal("upload endpoint not registered")
	}
	s.Wait()

	if len(got) != 1 || got[0].Name != "a.txt" {
		t.Errorf("files = %+v", got)
	}
	updates := rec.Events(message.EventUpdate)
	if len(updates) != 1 || str(updates[0], "text") != "received" {
		t.Errorf("updates = %#v", updates)
	}
}

func TestExecuteDeclaresFunctionOnce(t *testing.T) {
	s, rec := newSession(t)
	fn := live.NewJSFunction([]string{"x"}, "return x * 2")

	s.Execute(fn, []any{1}, "")
	s.Execute(fn, []any{2}, "double")
	flush(t, s)

	funcs := rec.Events(message.EventFunction)
	if len(funcs) != 1 || str(funcs[0], "name") != fn.ID() || str(funcs[0], "body") != fn.Body() {
		t.Fatalf("functions = %#v", funcs)
	}
	execs := rec.Events(message.EventExecute)
	if len(execs) != 2 {
		t.Fatalf("got %d executes", len(execs))
	}
	if execs[0].Has("store") || str(execs[1], "store") != "double" {
		t.Errorf("executes = %#v", execs)
	}
}

func TestSessionIDFromCookie(t *testing.T) {
	s, rec := newSession(t)
	id := ids.Session()
	rec.SetCookie(live.SessionCookie, id)

	if got := s.ID(); got != id {
		t.Errorf("ID() = %q, want %q", got, id)
	}
	flush(t, s)
	if len(rec.Events(message.EventCookie)) != 0 {
		t.Error("cookie sent for a known session")
	}
}

func TestSessionIDGenerated(t *testing.T) {
	s, rec := newSession(t)
	rec.SetCookie(live.SessionCookie, "not-a-session-id")

	id := s.ID()
	if !ids.ValidSession(id) {
		t.Errorf("generated id %q is not valid", id)
	}
	if s.ID() != id {
		t.Error("ID() not stable")
	}
	flush(t, s)
	cookies := rec.Events(message.EventCookie)
	if len(cookies) != 1 || str(cookies[0], "value") != id || str(cookies[0], "name") != live.SessionCookie {
		t.Errorf("cookies = %#v", cookies)
	}
}

func TestCloseStopsSession(t *testing.T) {
	s, rec := newSession(t)
	root := el.Div(el.Span("x"))
	mount(t, s, rec, root)

	s.Close()
	s.Close()

	if !s.Closed() {
		t.Error("Closed() = false")
	}
	if s.Mounted() != 0 {
		t.Errorf("Mounted() = %d after close", s.Mounted())
	}
	if s.Context().Err() == nil {
		t.Error("context not cancelled")
	}
	s.SetTitle("ignored")
	if err := s.Flush(context.Background()); !errors.Is(err, live.ErrSessionClosed) {
		t.Errorf("Flush() = %v, want ErrSessionClosed", err)
	}
	if n := len(rec.Frames()); n != 0 {
		t.Errorf("closed session sent %d frames", n)
	}
}

func TestFlushWithoutConnection(t *testing.T) {
	s := live.NewSession(nil, nil, live.WithLogger(quiet))
	defer s.Close()
	s.SetTitle("x")
	if err := s.Flush(context.Background()); !errors.Is(err, live.ErrNoConnection) {
		t.Errorf("Flush() = %v, want ErrNoConnection", err)
	}
}

func TestSetRootReplacesPrevious(t *testing.T) {
	s, rec := newSession(t)
	first := el.Div("first")
	mount(t, s, rec, first)

	second := el.Div("second")
	s.SetRoot(second)
	flush(t, s)

	msgs := withoutFlush(rec.Messages())
	if len(msgs) != 2 {
		t.Fatalf("messages = %#v", msgs)
	}
	if msgs[0].Event() != message.EventRemove || str(msgs[0], "id") != first.ID() {
		t.Errorf("first message = %#v", msgs[0])
	}
	if msgs[1].Event() != message.EventCreate || str(msgs[1], "id") != second.ID() {
		t.Errorf("second message = %#v", msgs[1])
	}
	if s.Root() != second {
		t.Error("Root() not updated")
	}
}

func TestErrorHookSeesFailures(t *testing.T) {
	var got []error
	s, _ := newSession(t, live.WithErrorHook(func(err error) { got = append(got, err) }))
	vtest.Deliver(t, s, "click", map[string]any{"id": "_missing"})
	if len(got) != 1 || !errors.Is(got[0], live.ErrBadRequest) {
		t.Errorf("hook saw %v", got)
	}
}

