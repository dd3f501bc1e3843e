package reactive

import "sync"

// Computed is a memoized value derived from other signals and computeds.
//
// The computation runs once at construction and again, synchronously,
// whenever a dependency changes. Dependents of a Computed re-run only if its
// new value differs from the cached one.
type Computed[T any] struct {
	base source

	compute func() T

	value   T
	valueMu sync.RWMutex

	sources   []*source
	sourcesMu sync.Mutex

	equal func(T, T) bool

	// running guards against a computation reading itself.
	running  bool
	disposed bool
}

// NewComputed creates a computed value and runs its computation.
func NewComputed[T any](compute func() T) *Computed[T] {
	c := &Computed[T]{
		base:    source{id: nextID()},
		compute: compute,
	}
	c.value = c.evaluate()
	return c
}

// WithEquals configures the equality function that decides whether a new
// value is a change.
func (c *Computed[T]) WithEquals(fn func(T, T) bool) *Computed[T] {
	c.equal = fn
	return c
}

// Get returns the cached value and records a dependency for the running
// reader, if any.
func (c *Computed[T]) Get() T {
	c.base.track()
	return c.Peek()
}

// Peek returns the cached value without recording a dependency.
func (c *Computed[T]) Peek() T {
	c.valueMu.RLock()
	defer c.valueMu.RUnlock()
	return c.value
}

// ID returns the unique identifier for this computed.
func (c *Computed[T]) ID() uint64 {
	return c.base.id
}

// Subscribers returns the number of readers depending on the computed.
func (c *Computed[T]) Subscribers() int {
	return len(c.base.subscribers())
}

// Dependencies returns the number of sources read during the last run.
func (c *Computed[T]) Dependencies() int {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()
	return len(c.sources)
}

// DependsOn reports whether the last run read the given signal or computed.
func (c *Computed[T]) DependsOn(dep Readable) bool {
	return hasSource(&c.sourcesMu, c.sources, dep.sourceNode())
}

// Dispose detaches the computed from the graph. It keeps its last value
// and never recomputes again.
func (c *Computed[T]) Dispose() {
	c.disposed = true
	c.clearSources()
}

func (c *Computed[T]) sourceNode() *source {
	return &c.base
}

func (c *Computed[T]) output() *source {
	return &c.base
}

func (c *Computed[T]) addSource(src *source) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()
	for _, s := range c.sources {
		if s == src {
			return
		}
	}
	c.sources = append(c.sources, src)
}

func (c *Computed[T]) clearSources() {
	c.sourcesMu.Lock()
	sources := c.sources
	c.sources = nil
	c.sourcesMu.Unlock()

	for _, s := range sources {
		s.unsubscribe(c)
	}
}

// evaluate clears the edges, runs the computation with c on top of the
// reader stack and returns the result.
func (c *Computed[T]) evaluate() T {
	c.clearSources()

	c.running = true
	pushReader(c)
	defer func() {
		popReader()
		c.running = false
	}()

	return c.compute()
}

func (c *Computed[T]) rerun() bool {
	if c.disposed || c.running {
		return false
	}
	newValue := c.evaluate()

	c.valueMu.Lock()
	changed := !c.equals(c.value, newValue)
	if changed {
		c.value = newValue
	}
	c.valueMu.Unlock()
	return changed
}

func (c *Computed[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

func hasSource(mu *sync.Mutex, sources []*source, target *source) bool {
	mu.Lock()
	defer mu.Unlock()
	for _, s := range sources {
		if s == target {
			return true
		}
	}
	return false
}
