package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, cfg *ServerConfig, pages *Pages) (*Server, *httptest.Server) {
	t.Helper()
	if cfg == nil {
		cfg = &ServerConfig{}
	}
	cfg.Logger = quiet()
	srv := New(cfg, pages)
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
		ts.Close()
	})
	return srv, ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, ts *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("Dial() error = %v (status %d)", err, status)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readBatch reads messages up to and excluding the next flush marker.
func readBatch(t *testing.T, conn *websocket.Conn) []map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var batch []map[string]any
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("invalid frame %q: %v", data, err)
		}
		if m["event"] == "flush" {
			return batch
		}
		batch = append(batch, m)
	}
}

func send(t *testing.T, conn *websocket.Conn, m map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(m); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
}

func find(batch []map[string]any, event, key, value string) map[string]any {
	for _, m := range batch {
		if m["event"] == event && m[key] == value {
			return m
		}
	}
	return nil
}

// eventually polls cond for up to a second.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
