// Package live is the server-resident UI runtime: the element tree that
// mirrors the client DOM, the per-connection Session that batches wire
// messages and dispatches client events, and the navigation and storage
// mirrors.
//
// # Elements
//
// An Elem has a process-unique id, a tag, free-form attributes, a style
// map, a class set and ordered children (elements or text). Elements are
// built unmounted and composed freely:
//
//	root := live.New("div",
//	    live.Attr{Key: "class", Value: "card"},
//	    live.New("h1", "Counter"),
//	    label,
//	)
//
// Mounting registers a subtree with the current session and sends one
// create message per node, parents first. While mounted, every mutation
// (SetAttr, Style, AddClass, Append, Insert, Clear, SetText) sends exactly
// one message; on an unmounted element mutations are silent and realized
// wholesale at mount. Unmounting deregisters children before parents and
// sends a single remove for the subtree root.
//
// # Sessions
//
// A Session is a monitor. Entry points (Do, Dispatch, HandleMessage, tasks)
// hold it and bind the session as current for the goroutine, so element
// mutations find their session without it being passed around:
//
//	s.Do(func() {
//	    s.SetRoot(app())
//	})
//	_ = s.Flush(ctx)
//
// Handlers run through CallHandler, which isolates failures: an error or
// panic becomes one error-level log message for the client and the batch
// still flushes. A handler may return a Task to continue asynchronously;
// tasks re-enter the monitor, may release it with Await or Sleep, and
// flush when they finish.
//
// # Capabilities
//
// Element types opt into click, input and change events by embedding
// ClickSupport, InputSupport or ChangeSupport and setting themselves as the
// element's host. Dispatch checks the host for Clickable, Inputtable and
// Changeable.
package live
