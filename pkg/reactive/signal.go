package reactive

import (
	"reflect"
	"sync"
)

// reader is a Computed or an Effect: something that runs a function and
// records what it reads.
type reader interface {
	// ID returns the unique identifier of the reader.
	ID() uint64

	// rerun executes the reader again and reports whether its output
	// changed. Effects always report false.
	rerun() bool

	// addSource records a dependency edge from the reader to src.
	addSource(src *source)

	// output returns the reader's own source, or nil for effects.
	output() *source
}

// source provides type-erased subscriber management.
// It is embedded in Signal[T] and Computed[T].
type source struct {
	id uint64

	// subs are the readers subscribed to this source, in subscription order.
	subs  []reader
	subMu sync.RWMutex
}

// subscribe adds a reader to this source's subscribers.
// Deduplicates by reader ID to prevent double-subscription.
func (s *source) subscribe(r reader) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	rid := r.ID()
	for _, existing := range s.subs {
		if existing.ID() == rid {
			return
		}
	}
	s.subs = append(s.subs, r)
}

// unsubscribe removes a reader from this source's subscribers.
func (s *source) unsubscribe(r reader) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	rid := r.ID()
	for i, existing := range s.subs {
		if existing.ID() == rid {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// subscribers returns a snapshot of the subscribers.
func (s *source) subscribers() []reader {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	out := make([]reader, len(s.subs))
	copy(out, s.subs)
	return out
}

// track records a dependency of the running reader, if any, on s.
func (s *source) track() {
	r := currentReader()
	if r == nil {
		return
	}
	s.subscribe(r)
	r.addSource(s)
}

// changed starts propagation from s, or defers it while a batch is open.
func (s *source) changed() {
	ctx := getTrackingContext()
	if ctx.batchDepth > 0 {
		ctx.pending = append(ctx.pending, s)
		return
	}
	settleTrackingContext(ctx)
	propagate(s)
}

// Signal is a reactive value container.
// Reading a Signal's value while a Computed or Effect runs subscribes that
// reader; writing a different value re-runs it synchronously.
type Signal[T any] struct {
	base source

	value T
	mu    sync.RWMutex

	// equal is the equality function used to determine if the value changed.
	// If nil, uses default equality checking.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base:  source{id: nextID()},
		value: initial,
	}
}

// Get returns the current value and records a dependency for the running
// reader, if any.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	s.base.track()
	return value
}

// Peek returns the current value without recording a dependency.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value. If the new value equals the stored one nothing
// happens; otherwise every dependent re-runs before Set returns.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.base.changed()
	}
}

// Update atomically reads and updates the signal's value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.base.changed()
	}
}

// WithEquals returns the signal configured with a custom equality function.
// Use it for identity semantics on reference payloads or where
// reflect.DeepEqual is too expensive.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

// Subscribers returns the number of readers depending on the signal.
func (s *Signal[T]) Subscribers() int {
	return len(s.base.subscribers())
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for common scalar types and reflect.DeepEqual for
// the rest. For interface-typed values a change of dynamic type is unequal.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case int64:
		bv, ok := any(b).(int64)
		return ok && av == bv
	case int32:
		bv, ok := any(b).(int32)
		return ok && av == bv
	case uint:
		bv, ok := any(b).(uint)
		return ok && av == bv
	case uint64:
		bv, ok := any(b).(uint64)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		return ok && av == bv
	case float32:
		bv, ok := any(b).(float32)
		return ok && av == bv
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	default:
		// Fall back to reflect.DeepEqual for slices, maps, structs, etc.
		return reflect.DeepEqual(a, b)
	}
}
