package live

import (
	"context"
	"net/url"
	"runtime/debug"

	"github.com/vango-dev/mirror/pkg/message"
)

// HandleMessage parses one inbound frame, dispatches it and flushes.
// Failures while handling are shown to the client and do not prevent the
// flush; the returned error is the flush's.
func (s *Session) HandleMessage(ctx context.Context, frame []byte) error {
	msg, err := message.Parse(frame)
	if err != nil {
		s.Do(func() {
			s.reportFailure(badRequest("", "E109", "%v", err))
		})
		return s.Flush(ctx)
	}
	s.Dispatch(msg)
	return s.Flush(ctx)
}

// Dispatch routes an inbound message to its handlers inside the session.
// Events other than load, click, input, change, popstate and data are
// ignored. It reports whether a failure was reported while handling msg;
// failures of tasks running meanwhile are not counted.
func (s *Session) Dispatch(msg message.Message) (failed bool) {
	s.Do(func() {
		before := s.failures
		defer func() {
			failed = s.failures != before
		}()
		defer func() {
			if r := recover(); r != nil {
				s.reportFailure(&PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		if err := s.dispatch(msg); err != nil {
			s.reportFailure(err)
		}
	})
	return
}

func (s *Session) dispatch(msg message.Message) error {
	switch msg.Event() {
	case message.EventLoad:
		return s.handleLoad(msg)

	case message.EventClick:
		el, err := s.eventTarget(msg)
		if err != nil {
			return err
		}
		c, ok := el.Host().(Clickable)
		if !ok {
			return badRequest(msg.Event(), "E108", "element %q does not support click", el.id)
		}
		c.ClickHandlers().trigger(s, ClickEvent{Target: el})

	case message.EventInput:
		el, err := s.eventTarget(msg)
		if err != nil {
			return err
		}
		value, err := eventValue(msg)
		if err != nil {
			return err
		}
		c, ok := el.Host().(Inputtable)
		if !ok {
			return badRequest(msg.Event(), "E108", "element %q does not support input", el.id)
		}
		c.InputHandlers().trigger(s, InputEvent{Target: el, Value: value})

	case message.EventChange:
		el, err := s.eventTarget(msg)
		if err != nil {
			return err
		}
		value, err := eventValue(msg)
		if err != nil {
			return err
		}
		c, ok := el.Host().(Changeable)
		if !ok {
			return badRequest(msg.Event(), "E108", "element %q does not support change", el.id)
		}
		c.ChangeHandlers().trigger(s, ChangeEvent{Target: el, Value: value})

	case message.EventPopState:
		return s.history.handlePopState(msg)

	case message.EventData:
		return s.storage.handle(msg)

	default:
		s.Logger().Debug("ignoring event", "event", msg.Event())
	}
	return nil
}

func (s *Session) eventTarget(msg message.Message) (*Elem, error) {
	id, ok := msg.GetString("id")
	if !ok {
		return nil, badRequest(msg.Event(), "E109", "expected string field \"id\"")
	}
	el := s.Lookup(id)
	if el == nil {
		return nil, badRequest(msg.Event(), "E107", "no mounted element %q", id)
	}
	return el, nil
}

func eventValue(msg message.Message) (string, error) {
	value, ok := msg.GetString("value")
	if !ok {
		return "", badRequest(msg.Event(), "E109", "expected string field \"value\"")
	}
	return value, nil
}

// handleLoad sets the location from the load message and builds the root
// through the router. The URL comes either as "url" or as "path" plus a
// "query" object.
func (s *Session) handleLoad(msg message.Message) error {
	raw, ok := msg.GetString("url")
	if !ok {
		path, ok := msg.GetString("path")
		if !ok {
			return badRequest(msg.Event(), "E109", "expected string field \"url\" or \"path\"")
		}
		u := url.URL{Path: path}
		if q, present := msg.Get("query"); present && q != nil {
			query, ok := q.(map[string]any)
			if !ok {
				return badRequest(msg.Event(), "E109", "expected object field \"query\", got %T", q)
			}
			values := url.Values{}
			for _, k := range sortedKeys(query) {
				values.Set(k, toString(query[k]))
			}
			u.RawQuery = values.Encode()
		}
		raw = u.String()
	}

	if err := s.location.set(raw); err != nil {
		return badRequest(msg.Event(), "E109", "invalid url %q: %v", raw, err)
	}
	if s.router == nil {
		s.Logger().Warn("load without router", "url", raw)
		return nil
	}
	s.SetRoot(s.router.Route(s.location))
	return nil
}
