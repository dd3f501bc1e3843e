package live

import (
	"github.com/vango-dev/mirror/pkg/message"
)

// PopStateEvent fires when the user navigates the session history.
type PopStateEvent struct {
	State    any
	Location *Location
}

// History mirrors the client's session history.
type History struct {
	s     *Session
	state any
	pops  Handlers[PopStateEvent]
}

func newHistory(s *Session) *History {
	return &History{s: s}
}

// State returns the state of the current entry.
func (h *History) State() any {
	return h.state
}

// Push adds an entry and moves the location to url.
func (h *History) Push(state any, url string) {
	h.s.Do(func() {
		h.s.Send(message.HistoryPush(state, url))
		h.state = state
		h.setLocation(url)
	})
}

// Replace replaces the current entry and moves the location to url.
func (h *History) Replace(state any, url string) {
	h.s.Do(func() {
		h.s.Send(message.HistoryReplace(state, url))
		h.state = state
		h.setLocation(url)
	})
}

// Go moves delta entries through the history. The location mirror is
// updated when the client reports the resulting popstate.
func (h *History) Go(delta int) {
	h.s.Send(message.HistoryGo(delta))
}

// Back is Go(-1).
func (h *History) Back() {
	h.Go(-1)
}

// Forward is Go(1).
func (h *History) Forward() {
	h.Go(1)
}

// OnPopState registers a handler for history navigation.
func (h *History) OnPopState(handler Handler[PopStateEvent]) {
	h.pops.Add(handler)
}

func (h *History) setLocation(url string) {
	if err := h.s.location.set(url); err != nil {
		h.s.Logger().Warn("history url not mirrored", "url", url, "error", err)
	}
}

func (h *History) handlePopState(msg message.Message) error {
	state, _ := msg.Get("state")
	if raw, present := msg.Get("url"); present && raw != nil {
		url, ok := raw.(string)
		if !ok {
			return badRequest(msg.Event(), "E109", "expected string field \"url\", got %T", raw)
		}
		if err := h.s.location.set(url); err != nil {
			return badRequest(msg.Event(), "E109", "invalid url %q: %v", url, err)
		}
	}
	h.state = state
	h.pops.trigger(h.s, PopStateEvent{State: state, Location: h.s.location})
	return nil
}
