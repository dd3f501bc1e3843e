// Package reactive provides the fine-grained reactive graph of the runtime.
//
// Dependencies are discovered from read access: reading a Signal or a
// Computed while a Computed or Effect is running records a dependency edge
// between them. There is no explicit subscription API.
//
// # Core Types
//
// Signal[T] is a mutable reactive cell:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (records a dependency for the running reader)
//	count.Set(5)          // Write (re-runs dependents synchronously)
//	count.Update(func(n int) int { return n + 1 })
//
// Computed[T] is a memoized derived value, recomputed eagerly when one of
// its dependencies changes:
//
//	doubled := NewComputed(func() int { return count.Get() * 2 })
//
// Effect re-runs a side effect whenever a dependency changes:
//
//	NewEffect(func() Cleanup {
//	    label.SetText(fmt.Sprint(count.Get()))
//	    return nil
//	})
//
// # Propagation
//
// Writes propagate push-based and synchronously. A write collects every
// transitive dependent, orders them topologically and re-runs each at most
// once, skipping readers whose inputs did not change. Writing a value equal
// to the stored one does nothing.
//
// Before a reader re-runs, all of its edges are removed; the run rebuilds
// them from the reads it actually performs, so conditional reads never
// leave stale edges.
//
// # Thread Safety
//
// The reader stack is goroutine-local. A graph is meant to be driven from
// one logical thread at a time (the live package drives it from inside a
// session's monitor); value and subscriber access is mutex-protected so
// concurrent reads stay memory-safe.
package reactive
