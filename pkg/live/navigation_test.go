package live_test

import (
	"strings"
	"testing"

	"github.com/vango-dev/mirror/el"
	"github.com/vango-dev/mirror/pkg/live"
	"github.com/vango-dev/mirror/pkg/message"
	"github.com/vango-dev/mirror/pkg/reactive"
	"github.com/vango-dev/mirror/pkg/vtest"
)

func pageRouter() live.Router {
	return live.RouterFunc(func(loc *live.Location) live.Node {
		return el.Div(el.Textf("%s?%s", loc.Path(), loc.Param("id")))
	})
}

func TestLoadBuildsRoot(t *testing.T) {
	s, rec := newSession(t, live.WithRouter(pageRouter()))

	vtest.Deliver(t, s, "load", map[string]any{"url": "https://example.com/items?id=3#top"})

	loc := s.Location()
	if loc.Path() != "/items" || loc.Param("id") != "3" || loc.Hash() != "top" {
		t.Errorf("location = %q", loc.Href())
	}
	if strings.Contains(loc.Href(), "example.com") {
		t.Errorf("host mirrored: %q", loc.Href())
	}
	creates := rec.Events(message.EventCreate)
	if len(creates) != 1 || str(creates[0], "text") != "/items?3" {
		t.Fatalf("creates = %#v", creates)
	}
	first := s.Root()

	rec.Reset()
	vtest.Deliver(t, s, "load", map[string]any{"path": "/other", "query": map[string]any{"id": 7}})
	if s.Location().Href() != "/other?id=7" {
		t.Errorf("Href() = %q", s.Location().Href())
	}
	removes := rec.Events(message.EventRemove)
	if len(removes) != 1 || str(removes[0], "id") != first.ID() {
		t.Errorf("old root not removed: %#v", removes)
	}
}

func TestLoadWithoutURL(t *testing.T) {
	s, rec := newSession(t, live.WithRouter(pageRouter()))
	vtest.Deliver(t, s, "load", map[string]any{})
	logs := rec.Events(message.EventLog)
	if len(logs) != 1 || str(logs[0], "message") != "Bad request" {
		t.Errorf("logs = %#v", logs)
	}
}

func TestHistoryPushAndReplace(t *testing.T) {
	s, rec := newSession(t)

	s.History().Push(map[string]any{"page": 2}, "/list?page=2")
	if s.Location().Param("page") != "2" {
		t.Errorf("location = %q", s.Location().Href())
	}
	s.History().Replace("x", "detail")
	if s.Location().Path() != "/detail" {
		t.Errorf("relative url resolved to %q", s.Location().Path())
	}
	if s.History().State() != "x" {
		t.Errorf("State() = %v", s.History().State())
	}
	s.History().Back()
	flush(t, s)

	hist := rec.Events(message.EventHistory)
	if len(hist) != 3 {
		t.Fatalf("got %d history messages", len(hist))
	}
	if !hist[0].Has("push") || str(hist[0], "url") != "/list?page=2" {
		t.Errorf("push = %#v", hist[0])
	}
	if str(hist[1], "replace") != "x" {
		t.Errorf("replace = %#v", hist[1])
	}
	if v, _ := hist[2].Get("go"); v != float64(-1) {
		t.Errorf("go = %#v", hist[2])
	}
}

func TestPopState(t *testing.T) {
	s, _ := newSession(t)

	var got live.PopStateEvent
	s.History().OnPopState(func(ev live.PopStateEvent) { got = ev })

	vtest.Deliver(t, s, "popstate", map[string]any{"state": "back", "url": "/prev"})

	if got.State != "back" || got.Location.Path() != "/prev" {
		t.Errorf("event = %+v", got)
	}
	if s.History().State() != "back" {
		t.Errorf("State() = %v", s.History().State())
	}
}

func TestLocationIsReactive(t *testing.T) {
	s, _ := newSession(t)
	var paths []string
	eff := reactive.NewEffect(func() reactive.Cleanup {
		paths = append(paths, s.Location().Path())
		return nil
	})
	defer eff.Dispose()

	s.History().Push(nil, "/a")
	if len(paths) != 2 || paths[1] != "/a" {
		t.Errorf("paths = %v", paths)
	}
}

func TestLocationAssign(t *testing.T) {
	s, rec := newSession(t)
	s.Location().Assign("https://example.com/")
	flush(t, s)
	locs := rec.Events(message.EventLocation)
	if len(locs) != 1 || str(locs[0], "url") != "https://example.com/" {
		t.Errorf("location messages = %#v", locs)
	}
}

func TestStorageMirror(t *testing.T) {
	s, rec := newSession(t)

	vtest.Deliver(t, s, "data", map[string]any{"key": "theme", "value": "dark"})
	vtest.Deliver(t, s, "data", map[string]any{"key": "count", "value": 3})
	if v, ok := s.Storage().Get("theme"); !ok || v != "dark" {
		t.Errorf("theme = %q, %v", v, ok)
	}
	if v, _ := s.Storage().Get("count"); v != "3" {
		t.Errorf("count = %q", v)
	}

	rec.Reset()
	s.Storage().Set("lang", "en")
	s.Storage().Delete("theme")
	flush(t, s)

	if keys := s.Storage().Keys(); len(keys) != 2 || keys[0] != "count" || keys[1] != "lang" {
		t.Errorf("Keys() = %v", keys)
	}
	data := rec.Events(message.EventData)
	if len(data) != 2 || str(data[0], "value") != "en" {
		t.Fatalf("data = %#v", data)
	}
	if v, ok := data[1].Get("value"); !ok || v != nil {
		t.Errorf("delete = %#v", data[1])
	}

	vtest.Deliver(t, s, "data", map[string]any{"key": "lang", "value": nil})
	if _, ok := s.Storage().Get("lang"); ok {
		t.Error("null value did not delete")
	}
}
