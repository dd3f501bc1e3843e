package reactive

// Batch groups several writes into one propagation wave. Dependents of all
// written sources re-run once, after fn returns.
//
// Batches can be nested. Propagation fires when the outermost batch completes.
//
// Example:
//
//	Batch(func() {
//	    firstName.Set("John")
//	    lastName.Set("Doe")
//	})
//	// fullName recomputes once
func Batch(fn func()) {
	ctx := getTrackingContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth > 0 {
			return
		}
		pending := ctx.pending
		ctx.pending = nil
		settleTrackingContext(ctx)
		if len(pending) > 0 {
			propagate(dedupeSources(pending)...)
		}
	}()

	fn()
}

func dedupeSources(sources []*source) []*source {
	seen := make(map[*source]bool, len(sources))
	out := sources[:0]
	for _, s := range sources {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
