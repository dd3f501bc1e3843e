package reactive

import "sync"

// Cleanup is a function returned by effects to release resources.
// It is called before the effect re-runs and when it is disposed.
type Cleanup func()

// Effect is a reactive side effect. It runs once when created and again,
// synchronously, whenever a signal or computed it read changes.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*source
	sourcesMu sync.Mutex

	running  bool
	disposed bool

	runs int
}

// NewEffect creates an effect and runs it immediately.
func NewEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	e.run()
	return e
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect body has executed.
func (e *Effect) Runs() int {
	return e.runs
}

// Dependencies returns the number of sources read during the last run.
func (e *Effect) Dependencies() int {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	return len(e.sources)
}

// DependsOn reports whether the last run read the given signal or computed.
func (e *Effect) DependsOn(dep Readable) bool {
	return hasSource(&e.sourcesMu, e.sources, dep.sourceNode())
}

// Dispose stops the effect and runs its pending cleanup.
func (e *Effect) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.clearSources()
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

func (e *Effect) output() *source {
	return nil
}

func (e *Effect) addSource(src *source) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, s := range e.sources {
		if s == src {
			return
		}
	}
	e.sources = append(e.sources, src)
}

func (e *Effect) clearSources() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, s := range sources {
		s.unsubscribe(e)
	}
}

func (e *Effect) rerun() bool {
	e.run()
	return false
}

func (e *Effect) run() {
	if e.disposed || e.running {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.clearSources()

	e.running = true
	pushReader(e)
	defer func() {
		popReader()
		e.running = false
	}()

	e.runs++
	e.cleanup = e.fn()
}
