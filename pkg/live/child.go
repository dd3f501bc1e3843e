package live

// Node is implemented by *Elem and by every type that wraps one.
type Node interface {
	Base() *Elem
}

// Child is one entry in an element's ordered children: either an element
// or a literal text run.
type Child struct {
	elem *Elem
	text string
}

// ElemChild returns a child holding e.
func ElemChild(e *Elem) Child {
	return Child{elem: e}
}

// TextChild returns a child holding literal text.
func TextChild(text string) Child {
	return Child{text: text}
}

// Elem returns the element, or nil for a text child.
func (c Child) Elem() *Elem {
	return c.elem
}

// Text returns the literal text, or the element's text content.
func (c Child) Text() string {
	if c.elem != nil {
		return c.elem.Text()
	}
	return c.text
}

// IsText reports whether c is a text child.
func (c Child) IsText() bool {
	return c.elem == nil
}

// Attr is a single attribute passed to New.
//
// The keys "class" and "style" are special: a class string is split on
// white space into the class set, and a style value of type
// map[string]string is merged into the style map.
type Attr struct {
	Key   string
	Value any
}
