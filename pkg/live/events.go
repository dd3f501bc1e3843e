package live

// Handler is an event handler. It must be one of:
//
//	func()
//	func(E)
//	func() error
//	func(E) error
//	func() Task
//	func(E) Task
//
// A handler returning a Task has the task scheduled on its session instead
// of awaited inline. Any other value is reported as an invalid handler
// when it is called.
type Handler[E any] interface{}

// Handlers is an ordered list of handlers for one event type. It is the
// building block of the interaction capabilities: element types embed a
// support component (ClickSupport, InputSupport, ChangeSupport) that owns
// a Handlers list.
type Handlers[E any] struct {
	owner *Elem
	attr  string
	list  []Handler[E]
}

// NewHandlers creates a list for owner. If attr is non-empty, adding the
// first handler sets that attribute to true so the client reports the
// event.
func NewHandlers[E any](owner *Elem, attr string) *Handlers[E] {
	return &Handlers[E]{owner: owner, attr: attr}
}

// Add registers a handler.
func (h *Handlers[E]) Add(fn Handler[E]) {
	h.list = append(h.list, fn)
	if h.attr != "" && h.owner != nil && len(h.list) == 1 {
		h.owner.SetAttr(h.attr, true)
	}
}

// Len returns the number of registered handlers.
func (h *Handlers[E]) Len() int {
	return len(h.list)
}

// Trigger runs every handler in registration order in the current session.
// Each handler is isolated: a failure is reported and the next one runs.
func (h *Handlers[E]) Trigger(ev E) {
	h.trigger(Require(), ev)
}

func (h *Handlers[E]) trigger(s *Session, ev E) {
	list := make([]Handler[E], len(h.list))
	copy(list, h.list)
	for _, fn := range list {
		CallHandler(s, fn, ev)
	}
}

// MountEvent fires after an element and its subtree are mounted.
type MountEvent struct {
	Target *Elem
}

// UnmountEvent fires after an element is unmounted.
type UnmountEvent struct {
	Target *Elem
}

// ClickEvent fires when an element is clicked.
type ClickEvent struct {
	Target *Elem
}

// InputEvent fires when the editable content of an element is updated.
type InputEvent struct {
	Target *Elem
	Value  string
}

// ChangeEvent fires when the editable content of an element is committed.
type ChangeEvent struct {
	Target *Elem
	Value  string
}

// Clickable is implemented by element types that report clicks.
type Clickable interface {
	ClickHandlers() *Handlers[ClickEvent]
}

// Inputtable is implemented by element types that report input.
type Inputtable interface {
	InputHandlers() *Handlers[InputEvent]
}

// Changeable is implemented by element types that report changes.
type Changeable interface {
	ChangeHandlers() *Handlers[ChangeEvent]
}

// ClickSupport gives an element type the click capability when embedded.
//
//	type Button struct {
//	    *live.Elem
//	    live.ClickSupport
//	}
//
//	b := &Button{Elem: live.New("button")}
//	b.ClickSupport = live.NewClickSupport(b.Elem)
//	b.SetHost(b)
type ClickSupport struct {
	clicks *Handlers[ClickEvent]
}

// NewClickSupport creates the component for owner.
func NewClickSupport(owner *Elem) ClickSupport {
	return ClickSupport{clicks: NewHandlers[ClickEvent](owner, "onclick")}
}

// OnClick registers a click handler.
func (c ClickSupport) OnClick(h Handler[ClickEvent]) {
	c.clicks.Add(h)
}

// ClickHandlers implements Clickable.
func (c ClickSupport) ClickHandlers() *Handlers[ClickEvent] {
	return c.clicks
}

// InputSupport gives an element type the input capability when embedded.
type InputSupport struct {
	inputs *Handlers[InputEvent]
}

// NewInputSupport creates the component for owner.
func NewInputSupport(owner *Elem) InputSupport {
	return InputSupport{inputs: NewHandlers[InputEvent](owner, "oninput")}
}

// OnInput registers an input handler.
func (c InputSupport) OnInput(h Handler[InputEvent]) {
	c.inputs.Add(h)
}

// InputHandlers implements Inputtable.
func (c InputSupport) InputHandlers() *Handlers[InputEvent] {
	return c.inputs
}

// ChangeSupport gives an element type the change capability when embedded.
type ChangeSupport struct {
	changes *Handlers[ChangeEvent]
}

// NewChangeSupport creates the component for owner.
func NewChangeSupport(owner *Elem) ChangeSupport {
	return ChangeSupport{changes: NewHandlers[ChangeEvent](owner, "onchange")}
}

// OnChange registers a change handler.
func (c ChangeSupport) OnChange(h Handler[ChangeEvent]) {
	c.changes.Add(h)
}

// ChangeHandlers implements Changeable.
func (c ChangeSupport) ChangeHandlers() *Handlers[ChangeEvent] {
	return c.changes
}
