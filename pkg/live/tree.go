package live

import (
	"github.com/vango-dev/mirror/pkg/message"
)

// IsMounted reports whether e is mounted in the current session. It is
// false when no session is current.
func (e *Elem) IsMounted() bool {
	return e.mountedIn(Current())
}

func (e *Elem) mountedIn(s *Session) bool {
	return s != nil && s.Lookup(e.id) == e
}

// Mount registers e and its descendants with the current session and sends
// one create message per node, parents before children. onmount handlers
// run after the subtree is mounted.
//
// Mount panics if e is already mounted or no session is current.
func (e *Elem) Mount() {
	e.mountIn(Require(), -1)
}

func (e *Elem) mountIn(s *Session, position int) {
	if e.mountedIn(s) {
		programmingError("E101", "element %s <%s>", e.id, e.tag)
	}
	s.mutating++
	defer func() { s.mutating-- }()

	attrs := e.Attrs()
	if position >= 0 {
		attrs["position"] = position
	}
	s.Send(message.Create(e.tag, e.id, e.parentID(), attrs))
	s.register(e)

	_, inline := e.inlineText()
	for _, c := range e.children {
		switch {
		case c.elem != nil:
			c.elem.mountIn(s, -1)
		case !inline:
			s.Send(message.CreateText(e.id, c.text))
		}
	}

	e.mounts.trigger(s, MountEvent{Target: e})
}

// Unmount deregisters e and its descendants, children first, and sends a
// single remove message for e. onunmount handlers run for every node.
//
// Unmount panics if e is not mounted or no session is current.
func (e *Elem) Unmount() {
	e.unmountIn(Require(), true)
}

func (e *Elem) unmountIn(s *Session, emit bool) {
	if !e.mountedIn(s) {
		programmingError("E102", "element %s <%s>", e.id, e.tag)
	}
	s.mutating++
	defer func() { s.mutating-- }()

	for _, c := range e.children {
		if c.elem != nil {
			c.elem.unmountIn(s, false)
		}
	}

	s.deregister(e)
	if emit {
		s.Send(message.Remove(e.id))
	}

	e.unmounts.trigger(s, UnmountEvent{Target: e})
}

// Append adds children at the end. Accepted values are those New accepts
// as children: *Elem, Node, string, Child, []Child and []any.
//
// A child is first removed from its previous parent. When e is mounted,
// an unmounted child is mounted and a mounted child is moved on the client.
func (e *Elem) Append(children ...any) *Elem {
	for _, c := range children {
		e.appendArg(c, -1)
	}
	return e
}

// Insert adds children starting at index, which is clamped to the valid
// range.
func (e *Elem) Insert(index int, children ...any) *Elem {
	if index < 0 {
		index = 0
	}
	for _, c := range children {
		index = e.appendArg(c, index)
	}
	return e
}

// appendArg inserts one argument at position (-1 appends) and returns the
// position after the inserted children.
func (e *Elem) appendArg(arg any, position int) int {
	switch v := arg.(type) {
	case nil:
		return position
	case string:
		return e.addText(v, position)
	case Child:
		if v.elem != nil {
			return e.addElem(v.elem, position)
		}
		return e.addText(v.text, position)
	case []Child:
		for _, c := range v {
			position = e.appendArg(c, position)
		}
		return position
	case []any:
		for _, c := range v {
			position = e.appendArg(c, position)
		}
		return position
	case []*Elem:
		for _, c := range v {
			position = e.appendArg(c, position)
		}
		return position
	case []Node:
		for _, c := range v {
			position = e.appendArg(c, position)
		}
		return position
	case Node:
		if reflectNil(v) {
			return position
		}
		return e.addElem(v.Base(), position)
	}
	programmingError("E104", "%T", arg)
	return position
}

func (e *Elem) addText(text string, position int) int {
	pos := e.insertChild(TextChild(text), position)

	s := Current()
	if e.mountedIn(s) {
		if position < 0 {
			s.Send(message.CreateText(e.id, text))
		} else {
			s.Send(message.CreateTextAt(e.id, text, pos))
		}
	}
	return next(position)
}

func (e *Elem) addElem(child *Elem, position int) int {
	if child == e || child.Contains(e) {
		programmingError("E106", "cannot append %s <%s> to %s <%s>", child.id, child.tag, e.id, e.tag)
	}

	s := Current()
	wasMounted := child.mountedIn(s)

	child.detachFromParent()
	child.parent = e
	pos := e.insertChild(ElemChild(child), position)

	if s == nil {
		return next(position)
	}

	switch {
	case e.mountedIn(s) && !wasMounted:
		mountPos := -1
		if position >= 0 {
			mountPos = pos
		}
		child.mountIn(s, mountPos)
	case e.mountedIn(s):
		attrs := map[string]any{"parent": e.id}
		if position >= 0 {
			attrs["position"] = pos
		}
		s.Send(message.Update(child.id, attrs))
	case wasMounted:
		// Moved into a tree the client does not have.
		child.unmountIn(s, true)
	}
	return next(position)
}

func next(position int) int {
	if position < 0 {
		return position
	}
	return position + 1
}

// insertChild places c at position (-1 or out of range appends) and returns
// its index.
func (e *Elem) insertChild(c Child, position int) int {
	if position < 0 || position >= len(e.children) {
		e.children = append(e.children, c)
		return len(e.children) - 1
	}
	e.children = append(e.children, Child{})
	copy(e.children[position+1:], e.children[position:])
	e.children[position] = c
	return position
}

func (e *Elem) detachFromParent() {
	p := e.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c.elem == e {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// Remove detaches e from its parent, unmounting it first if it is mounted.
func (e *Elem) Remove() {
	s := Current()
	if e.mountedIn(s) {
		e.unmountIn(s, true)
	}
	e.detachFromParent()
}

// Clear unmounts and detaches all children. A mounted element sends a
// single clear message instead of one remove per child.
func (e *Elem) Clear() *Elem {
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
	e.children = nil
	if mounted {
		s.Send(message.Clear(e.id))
	}
	return e
}

// Contains reports whether other is a descendant of e.
func (e *Elem) Contains(other Node) bool {
	if other == nil || reflectNil(other) {
		return false
	}
	base := other.Base()
	if base == nil {
		return false
	}
	for p := base.parent; p != nil; p = p.parent {
		if p == e {
			return true
		}
	}
	return false
}

// Walk calls fn for e and every descendant element in pre-order.
func (e *Elem) Walk(fn func(*Elem)) {
	fn(e)
	for _, c := range e.children {
		if c.elem != nil {
			c.elem.Walk(fn)
		}
	}
}
