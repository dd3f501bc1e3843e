package message

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Reserved event names.
const (
	EventCreate   = "create"
	EventUpdate   = "update"
	EventRemove   = "remove"
	EventClear    = "clear"
	EventHTML     = "html"
	EventFunction = "function"
	EventExecute  = "execute"
	EventLog      = "log"
	EventCookie   = "cookie"
	EventTitle    = "title"
	EventTheme    = "theme"
	EventHistory  = "history"
	EventLocation = "location"
	EventData     = "data"
	EventFlush    = "flush"

	// Inbound events.
	EventLoad     = "load"
	EventClick    = "click"
	EventInput    = "input"
	EventChange   = "change"
	EventPopState = "popstate"
)

// Level is the severity of a log message shown to the client.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// ErrMissingEvent is returned by Parse when a frame has no string "event" field.
var ErrMissingEvent = errors.New("message: missing event")

// Message is an immutable {event, data} record.
type Message struct {
	event string
	data  map[string]any
}

func newMessage(event string, data map[string]any) Message {
	if data == nil {
		data = make(map[string]any)
	}
	return Message{event: event, data: data}
}

// Event returns the event name.
func (m Message) Event() string {
	return m.event
}

// Get returns a data field.
func (m Message) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

// GetString returns a data field as a string. ok is false if the field is
// missing or not a string.
func (m Message) GetString(key string) (s string, ok bool) {
	v, found := m.data[key]
	if !found {
		return "", false
	}
	s, ok = v.(string)
	return s, ok
}

// Has reports whether the data field is present.
func (m Message) Has(key string) bool {
	_, ok := m.data[key]
	return ok
}

// Data returns a copy of the data fields.
func (m Message) Data() map[string]any {
	out := make(map[string]any, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

// Len returns the number of data fields.
func (m Message) Len() int {
	return len(m.data)
}

// MarshalJSON encodes the message as a flat JSON object.
func (m Message) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(m.data)+1)
	for k, v := range m.data {
		obj[k] = v
	}
	obj["event"] = m.event
	return json.Marshal(obj)
}

// Encode serializes the message. Values that cannot be represented in JSON
// (funcs, channels, cyclic structures) produce an error.
func (m Message) Encode() ([]byte, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("message: encode %s: %w", m.event, err)
	}
	return data, nil
}

// Parse decodes a wire frame into a Message.
func Parse(data []byte) (Message, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return Message{}, fmt.Errorf("message: decode: %w", err)
	}
	event, ok := obj["event"].(string)
	if !ok || event == "" {
		return Message{}, ErrMissingEvent
	}
	delete(obj, "event")
	return newMessage(event, obj), nil
}

// GoString makes messages readable in test failures.
func (m Message) GoString() string {
	data, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("message.Message{event:%q}", m.event)
	}
	return string(data)
}
