package live

import (
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/mirror/internal/ids"
	"github.com/vango-dev/mirror/pkg/message"
	"github.com/vango-dev/mirror/pkg/reactive"
)

// StyleUnset as a style value removes the property.
const StyleUnset = "unset"

// bodyID is the parent id sent for elements without a parent.
const bodyID = "body"

// Elem is the server-side mirror of one client DOM node.
//
// An Elem is not safe for concurrent use. Mutate mounted elements only from
// inside their session (a handler, a task, or Session.Do).
type Elem struct {
	id  string
	tag string

	parent   *Elem
	children []Child

	attrs   map[string]any
	style   map[string]string
	classes []string

	props map[string]any
	table *PropertyTable

	host any

	mounts   Handlers[MountEvent]
	unmounts Handlers[UnmountEvent]
}

// New creates an unmounted element.
//
// args may contain, in any order and nested in []any: Attr and []Attr
// values, *Elem or other Node values, strings (text children), Child and
// []Child values. nil entries are ignored. Any other type panics.
func New(tag string, args ...any) *Elem {
	e := &Elem{
		id:  ids.Next(),
		tag: tag,
	}
	e.apply(args)
	return e
}

func (e *Elem) apply(args []any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case Attr:
			e.applyAttr(v)
		case []Attr:
			for _, a := range v {
				e.applyAttr(a)
			}
		case []any:
			e.apply(v)
		default:
			e.appendArg(arg, -1)
		}
	}
}

func (e *Elem) applyAttr(a Attr) {
	switch a.Key {
	case "class":
		if s, ok := a.Value.(string); ok {
			e.classes = addClasses(e.classes, s)
			return
		}
	case "style":
		if m, ok := a.Value.(map[string]string); ok {
			e.mergeStyle(m)
			return
		}
	}
	if a.Value == nil {
		return
	}
	if e.attrs == nil {
		e.attrs = make(map[string]any)
	}
	e.attrs[a.Key] = a.Value
}

// ID returns the element's process-unique id.
func (e *Elem) ID() string {
	return e.id
}

// Tag returns the element's tag name.
func (e *Elem) Tag() string {
	return e.tag
}

// Base returns e itself, making *Elem a Node.
func (e *Elem) Base() *Elem {
	return e
}

// Parent returns the owning element, or nil.
func (e *Elem) Parent() *Elem {
	return e.parent
}

// Children returns a copy of the ordered children.
func (e *Elem) Children() []Child {
	out := make([]Child, len(e.children))
	copy(out, e.children)
	return out
}

// SetHost records the wrapper value that owns e. Event dispatch checks the
// host for capabilities such as Clickable.
func (e *Elem) SetHost(host any) *Elem {
	e.host = host
	return e
}

// Host returns the wrapper set by SetHost, or e itself.
func (e *Elem) Host() any {
	if e.host != nil {
		return e.host
	}
	return e
}

// SetProperties attaches the typed property table of e's element type.
func (e *Elem) SetProperties(t *PropertyTable) *Elem {
	e.table = t
	return e
}

// Attr returns a free-form attribute.
func (e *Elem) Attr(name string) (any, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets a free-form attribute. A mounted element sends one update with
// the new value; setting an identical value sends nothing.
func (e *Elem) SetAttr(name string, value any) *Elem {
	if old, ok := e.attrs[name]; ok && reflect.DeepEqual(old, value) {
		return e
	}
	if e.attrs == nil {
		e.attrs = make(map[string]any)
	}
	e.attrs[name] = value
	e.update(map[string]any{name: value})
	return e
}

// RemoveAttr removes a free-form attribute and unsets it on the client.
func (e *Elem) RemoveAttr(name string) *Elem {
	if _, ok := e.attrs[name]; !ok {
		return e
	}
	delete(e.attrs, name)
	e.update(map[string]any{name: nil})
	return e
}

// Style merges style properties. The value StyleUnset removes a property.
// A mounted element sends one update carrying only the keys that changed.
func (e *Elem) Style(style map[string]string) *Elem {
	changed := e.mergeStyle(style)
	if len(changed) > 0 {
		e.update(map[string]any{"style": changed})
	}
	return e
}

func (e *Elem) mergeStyle(style map[string]string) map[string]string {
	changed := make(map[string]string)
	for k, v := range style {
		old, had := e.style[k]
		if v == StyleUnset || v == "" {
			if had {
				delete(e.style, k)
				changed[k] = StyleUnset
			}
			continue
		}
		if had && old == v {
			continue
		}
		if e.style == nil {
			e.style = make(map[string]string)
		}
		e.style[k] = v
		changed[k] = v
	}
	return changed
}

// StyleValue returns one style property.
func (e *Elem) StyleValue(name string) (string, bool) {
	v, ok := e.style[name]
	return v, ok
}

// AddClass adds white-space separated class names.
func (e *Elem) AddClass(names string) *Elem {
	next := addClasses(e.classes, names)
	if len(next) != len(e.classes) {
		e.classes = next
		e.update(map[string]any{"class": e.ClassName()})
	}
	return e
}

// RemoveClass removes white-space separated class names.
func (e *Elem) RemoveClass(names string) *Elem {
	drop := strings.Fields(names)
	kept := e.classes[:0:0]
	for _, c := range e.classes {
		if !containsString(drop, c) {
			kept = append(kept, c)
		}
	}
	if len(kept) != len(e.classes) {
		e.classes = kept
		e.update(map[string]any{"class": e.ClassName()})
	}
	return e
}

// HasClass reports whether the class set contains name.
func (e *Elem) HasClass(name string) bool {
	return containsString(e.classes, name)
}

// ClassName returns the class set joined by spaces, in insertion order.
func (e *Elem) ClassName() string {
	return strings.Join(e.classes, " ")
}

func addClasses(classes []string, names string) []string {
	for _, c := range strings.Fields(names) {
		if !containsString(classes, c) {
			classes = append(classes, c)
		}
	}
	return classes
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Text returns the concatenated text of all descendants.
func (e *Elem) Text() string {
	var b strings.Builder
	for _, c := range e.children {
		b.WriteString(c.Text())
	}
	return b.String()
}

// SetText replaces all children with one text child.
func (e *Elem) SetText(text string) *Elem {
	s := Current()
	mounted := e.mountedIn(s)
	for _, c := range e.children {
		if c.elem == nil {
			continue
		}
		if mounted {
			c.elem.unmountIn(s, false)
		}
		c.elem.parent = nil
	}
	e.children = []Child{TextChild(text)}
	if mounted {
		s.Send(message.Update(e.id, map[string]any{"text": text}))
	}
	return e
}

// Attrs returns the element's wire attributes: free-form attributes, typed
// properties, style and class. An element whose only child is text also
// carries it as "text".
func (e *Elem) Attrs() map[string]any {
	out := make(map[string]any, len(e.attrs)+4)
	for k, v := range e.attrs {
		out[k] = v
	}
	e.table.collect(e, out)
	if len(e.style) > 0 {
		style := make(map[string]string, len(e.style))
		for k, v := range e.style {
			style[k] = v
		}
		out["style"] = style
	}
	if len(e.classes) > 0 {
		out["class"] = e.ClassName()
	}
	if text, ok := e.inlineText(); ok {
		out["text"] = text
	}
	return out
}

// inlineText returns the text of an element whose only child is text.
func (e *Elem) inlineText() (string, bool) {
	if len(e.children) == 1 && e.children[0].elem == nil {
		return e.children[0].text, true
	}
	return "", false
}

// OnMount registers a handler run after e and its subtree are mounted.
func (e *Elem) OnMount(h Handler[MountEvent]) *Elem {
	e.mounts.Add(h)
	return e
}

// OnUnmount registers a handler run after e is unmounted.
func (e *Elem) OnUnmount(h Handler[UnmountEvent]) *Elem {
	e.unmounts.Add(h)
	return e
}

// Effect ties a reactive effect to e's mounted lifetime: it starts when e
// mounts and is disposed when e unmounts.
//
//	label.Effect(func() { label.SetText(fmt.Sprint(count.Get())) })
func (e *Elem) Effect(fn func()) *Elem {
	var eff *reactive.Effect
	e.OnMount(func() {
		eff = reactive.NewEffect(func() reactive.Cleanup {
			fn()
			return nil
		})
	})
	e.OnUnmount(func() {
		if eff != nil {
			eff.Dispose()
			eff = nil
		}
	})
	return e
}

func (e *Elem) parentID() string {
	if e.parent == nil {
		return bodyID
	}
	return e.parent.id
}

// update sends changed attributes if e is mounted in the current session.
func (e *Elem) update(attrs map[string]any) {
	s := Current()
	if e.mountedIn(s) {
		s.Send(message.Update(e.id, attrs))
	}
}

// String renders the subtree as HTML.
func (e *Elem) String() string {
	return RenderHTML(e)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func reflectNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}
