package vtest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/vango-dev/mirror/pkg/live"
)

// Deliver sends an inbound event to s as the client would and waits for
// the resulting flush. data is merged with the event name.
func Deliver(t testing.TB, s *live.Session, event string, data map[string]any) {
	t.Helper()
	payload := make(map[string]any, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	payload["event"] = event
	frame, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("vtest: encode %s event: %v", event, err)
	}
	if err := s.HandleMessage(context.Background(), frame); err != nil {
		t.Fatalf("vtest: handle %s event: %v", event, err)
	}
}

// Click simulates a click on n.
func Click(t testing.TB, s *live.Session, n live.Node) {
	t.Helper()
	Deliver(t, s, "click", map[string]any{"id": n.Base().ID()})
}

// Input simulates the user typing value into n.
func Input(t testing.TB, s *live.Session, n live.Node, value string) {
	t.Helper()
	Deliver(t, s, "input", map[string]any{"id": n.Base().ID(), "value": value})
}

// Change simulates the user committing value in n.
func Change(t testing.TB, s *live.Session, n live.Node, value string) {
	t.Helper()
	Deliver(t, s, "change", map[string]any{"id": n.Base().ID(), "value": value})
}
