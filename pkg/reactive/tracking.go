package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state of one goroutine.
type trackingContext struct {
	// readers is the stack of currently running Computed/Effect instances.
	// The top attributes dependency edges; a nil entry suspends tracking.
	readers []reader

	// batchDepth tracks nested Batch() calls.
	batchDepth int

	// pending accumulates written sources while a batch is open.
	pending []*source

	// currentCtx holds the runtime context bound to this goroutine (the live
	// session). Stored as any to avoid an import cycle.
	currentCtx any
}

func (c *trackingContext) empty() bool {
	return len(c.readers) == 0 && c.batchDepth == 0 && len(c.pending) == 0 && c.currentCtx == nil
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine.
// This uses the runtime stack to extract the goroutine ID.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> "
	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it on first use.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// settleTrackingContext stores ctx back as the goroutine's context, or
// drops the entry once nothing is bound to it so finished goroutines do not
// leak. Storing back matters when a nested call emptied and released ctx
// before an outer binding was restored on it.
func settleTrackingContext(ctx *trackingContext) {
	gid := getGoroutineID()
	if ctx.empty() {
		trackingContexts.Delete(gid)
		return
	}
	trackingContexts.Store(gid, ctx)
}

func currentReader() reader {
	ctx := getTrackingContext()
	if len(ctx.readers) == 0 {
		return nil
	}
	return ctx.readers[len(ctx.readers)-1]
}

func pushReader(r reader) {
	ctx := getTrackingContext()
	ctx.readers = append(ctx.readers, r)
}

func popReader() {
	ctx := getTrackingContext()
	ctx.readers = ctx.readers[:len(ctx.readers)-1]
	settleTrackingContext(ctx)
}

// Untracked runs fn without recording reads as dependencies.
func Untracked(fn func()) {
	pushReader(nil)
	defer popReader()
	fn()
}

// CurrentCtx returns the runtime context bound to the current goroutine,
// or nil.
func CurrentCtx() any {
	gid := getGoroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext).currentCtx
	}
	return nil
}

// WithCtx runs fn with c bound as the goroutine's runtime context and
// restores the previous binding afterwards. Bindings never cross
// goroutines: code that spawns a goroutine must bind again inside it.
//
// Example (internal use by the live package):
//
//	WithCtx(session, func() {
//	    // live.Current() returns session here
//	    root.Mount()
//	})
func WithCtx(c any, fn func()) {
	ctx := getTrackingContext()
	old := ctx.currentCtx
	ctx.currentCtx = c
	defer func() {
		ctx.currentCtx = old
		settleTrackingContext(ctx)
	}()
	fn()
}
