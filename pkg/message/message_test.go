package message

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func decode(t *testing.T, m Message) map[string]any {
	t.Helper()
	data, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return obj
}

func TestCreate(t *testing.T) {
	m := Create("div", "_1", "body", map[string]any{
		"style":   map[string]any{},
		"onclick": false,
		"title":   "hi",
	})
	got := decode(t, m)
	want := map[string]any{
		"event":  "create",
		"tag":    "div",
		"id":     "_1",
		"parent": "body",
		"title":  "hi",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCreateKeepsTrueFlags(t *testing.T) {
	m := Create("button", "_2", "_1", map[string]any{"onclick": true})
	if v, _ := m.Get("onclick"); v != true {
		t.Errorf("onclick = %v, want true", v)
	}
}

func TestFactories(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want map[string]any
	}{
		{"remove", Remove("_1"), map[string]any{"event": "remove", "id": "_1"}},
		{"clear", Clear("_1"), map[string]any{"event": "clear", "id": "_1"}},
		{"text", CreateText("_1", "hello"), map[string]any{"event": "create", "parent": "_1", "text": "hello"}},
		{"update unset", Update("_1", map[string]any{"title": nil}), map[string]any{"event": "update", "id": "_1", "title": nil}},
		{"execute", Execute("f", []any{1.0, "x"}, ""), map[string]any{"event": "execute", "name": "f", "args": []any{1.0, "x"}}},
		{"execute store", Execute("f", nil, "out"), map[string]any{"event": "execute", "name": "f", "args": []any{}, "store": "out"}},
		{"function", Function("f", []string{"a"}, "return a"), map[string]any{"event": "function", "name": "f", "params": []any{"a"}, "body": "return a"}},
		{"log", Log(LevelError, "boom", nil), map[string]any{"event": "log", "level": "error", "message": "boom"}},
		{"log details", Log(LevelInfo, "x", "y"), map[string]any{"event": "log", "level": "info", "message": "x", "details": "y"}},
		{"history go", HistoryGo(-1), map[string]any{"event": "history", "go": -1.0}},
		{"data delete", Data("k", nil), map[string]any{"event": "data", "key": "k", "value": nil}},
		{"flush", Flush(), map[string]any{"event": "flush"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decode(t, tt.msg); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodeUnsupportedValue(t *testing.T) {
	m := Update("_1", map[string]any{"bad": func() {}})
	if _, err := m.Encode(); err == nil {
		t.Fatal("expected encode error for func value")
	}
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`{"event":"input","id":"_3","value":"abc"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Event() != EventInput {
		t.Errorf("Event = %q", m.Event())
	}
	if id, ok := m.GetString("id"); !ok || id != "_3" {
		t.Errorf("id = %q, %v", id, ok)
	}
	if m.Has("event") {
		t.Error("event must not be part of data")
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Error("expected decode error")
	}
	if _, err := Parse([]byte(`{"id":"_1"}`)); !errors.Is(err, ErrMissingEvent) {
		t.Errorf("err = %v, want ErrMissingEvent", err)
	}
	if _, err := Parse([]byte(`{"event":3}`)); !errors.Is(err, ErrMissingEvent) {
		t.Errorf("err = %v, want ErrMissingEvent", err)
	}
}

func TestDataIsCopied(t *testing.T) {
	m := Remove("_1")
	d := m.Data()
	d["id"] = "_2"
	if id, _ := m.GetString("id"); id != "_1" {
		t.Error("Data() must return a copy")
	}
}
