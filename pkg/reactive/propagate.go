package reactive

// propagate re-runs every transitive dependent of the written sources.
//
// Dependents are visited in topological order computed from the graph as it
// stands before the wave, and each runs at most once. A reader runs only if
// one of its inputs changed in this wave: a written source, or a computed
// whose re-run produced a different value.
func propagate(origins ...*source) {
	order := topoOrder(origins)
	if len(order) == 0 {
		return
	}

	dirty := make(map[uint64]bool)
	for _, o := range origins {
		for _, r := range o.subscribers() {
			dirty[r.ID()] = true
		}
	}

	ran := make(map[uint64]bool, len(order))
	runOne := func(r reader) []reader {
		ran[r.ID()] = true
		if !r.rerun() {
			return nil
		}
		out := r.output()
		if out == nil {
			return nil
		}
		subs := out.subscribers()
		for _, sub := range subs {
			dirty[sub.ID()] = true
		}
		return subs
	}

	var late []reader
	for _, r := range order {
		if !dirty[r.ID()] || ran[r.ID()] {
			continue
		}
		for _, sub := range runOne(r) {
			if !inOrder(order, sub) {
				late = append(late, sub)
			}
		}
	}

	// Readers that subscribed during the wave were not part of the
	// precomputed order; run them after it, still at most once.
	for len(late) > 0 {
		r := late[0]
		late = late[1:]
		if ran[r.ID()] {
			continue
		}
		late = append(late, runOne(r)...)
	}
}

// topoOrder returns the readers reachable from origins, dependencies first.
func topoOrder(origins []*source) []reader {
	visited := make(map[uint64]bool)
	var post []reader

	var visit func(r reader)
	visit = func(r reader) {
		if visited[r.ID()] {
			return
		}
		visited[r.ID()] = true
		if out := r.output(); out != nil {
			for _, sub := range out.subscribers() {
				visit(sub)
			}
		}
		post = append(post, r)
	}

	for _, o := range origins {
		for _, r := range o.subscribers() {
			visit(r)
		}
	}

	// Reverse post-order is a topological order.
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

func inOrder(order []reader, r reader) bool {
	for _, o := range order {
		if o.ID() == r.ID() {
			return true
		}
	}
	return false
}
