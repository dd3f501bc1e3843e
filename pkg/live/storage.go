package live

import (
	"fmt"
	"sync"

	"github.com/vango-dev/mirror/pkg/message"
)

// Storage mirrors the client's key/value storage. The client reports its
// entries with data messages; writes are sent back the same way.
type Storage struct {
	s *Session

	mu     sync.RWMutex
	values map[string]string
}

func newStorage(s *Session) *Storage {
	return &Storage{s: s, values: make(map[string]string)}
}

// Get returns a stored value.
func (st *Storage) Get(key string) (string, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	v, ok := st.values[key]
	return v, ok
}

// Set stores a value locally and on the client.
func (st *Storage) Set(key, value string) {
	st.mu.Lock()
	st.values[key] = value
	st.mu.Unlock()
	st.s.Send(message.Data(key, &value))
}

// Delete removes a value locally and on the client.
func (st *Storage) Delete(key string) {
	st.mu.Lock()
	delete(st.values, key)
	st.mu.Unlock()
	st.s.Send(message.Data(key, nil))
}

// Keys returns the stored keys in sorted order.
func (st *Storage) Keys() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return sortedKeys(st.values)
}

func (st *Storage) handle(msg message.Message) error {
	key, ok := msg.GetString("key")
	if !ok {
		return badRequest(msg.Event(), "E109", "expected string field \"key\"")
	}
	raw, _ := msg.Get("value")

	st.mu.Lock()
	defer st.mu.Unlock()
	if raw == nil {
		delete(st.values, key)
		return nil
	}
	st.values[key] = toString(raw)
	return nil
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
