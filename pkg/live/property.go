package live

// Descriptor is a typed attribute contributed by an element type. It is both
// an ordinary accessor on the element and part of the element's wire payload.
type Descriptor interface {
	// Name is the wire key.
	Name() string

	wireValue(e *Elem) (any, bool)
}

// PropertyTable lists the descriptors of an element type. Tables are built
// once, when the type is defined, and shared by every instance.
type PropertyTable struct {
	descs []Descriptor
}

// NewPropertyTable creates a table from descriptors.
func NewPropertyTable(descs ...Descriptor) *PropertyTable {
	return &PropertyTable{descs: descs}
}

// With returns a new table holding t's descriptors followed by descs, for
// types that extend another type.
func (t *PropertyTable) With(descs ...Descriptor) *PropertyTable {
	var base []Descriptor
	if t != nil {
		base = t.descs
	}
	out := make([]Descriptor, 0, len(base)+len(descs))
	out = append(out, base...)
	out = append(out, descs...)
	return &PropertyTable{descs: out}
}

// Names returns the wire keys in declaration order.
func (t *PropertyTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.descs))
	for i, d := range t.descs {
		names[i] = d.Name()
	}
	return names
}

func (t *PropertyTable) collect(e *Elem, into map[string]any) {
	if t == nil {
		return
	}
	for _, d := range t.descs {
		if v, ok := d.wireValue(e); ok {
			into[d.Name()] = v
		}
	}
}

// Prop is a typed property descriptor.
//
//	var Placeholder = live.NewProp[string]("placeholder")
//	Placeholder.Set(input, "Search")
type Prop[T any] struct {
	name string
}

// NewProp declares a property with the given wire key.
func NewProp[T any](name string) Prop[T] {
	return Prop[T]{name: name}
}

// Name returns the wire key.
func (p Prop[T]) Name() string {
	return p.name
}

// Get returns the property's value on e, or the zero value if unset.
func (p Prop[T]) Get(e *Elem) T {
	v, _ := e.props[p.name].(T)
	return v
}

// IsSet reports whether the property has a value on e.
func (p Prop[T]) IsSet(e *Elem) bool {
	_, ok := e.props[p.name]
	return ok
}

// Set stores v on e and, if e is mounted, sends an update.
func (p Prop[T]) Set(e *Elem, v T) {
	p.Store(e, v)
	e.update(map[string]any{p.name: v})
}

// Store stores v without telling the client. It is used to mirror state the
// client already has, such as the value of an input the user typed into.
func (p Prop[T]) Store(e *Elem, v T) {
	if e.props == nil {
		e.props = make(map[string]any)
	}
	e.props[p.name] = v
}

// Clear removes the property and, if e is mounted, unsets it on the client.
func (p Prop[T]) Clear(e *Elem) {
	if _, ok := e.props[p.name]; !ok {
		return
	}
	delete(e.props, p.name)
	e.update(map[string]any{p.name: nil})
}

func (p Prop[T]) wireValue(e *Elem) (any, bool) {
	v, ok := e.props[p.name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
