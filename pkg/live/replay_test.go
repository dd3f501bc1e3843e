package live_test

import (
	"strings"
	"testing"

	"github.com/vango-dev/mirror/el"
	"github.com/vango-dev/mirror/pkg/message"
)

// domNode is a minimal model of the DOM the thin client maintains.
type domNode struct {
	id       string
	text     string
	parent   *domNode
	children []*domNode
}

func (n *domNode) detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// insert mirrors the client's insertBefore(childNodes[position]) or append.
func (n *domNode) insert(child *domNode, position any) {
	child.parent = n
	if pos, ok := position.(float64); ok && int(pos) < len(n.children) {
		i := int(pos)
		n.children = append(n.children, nil)
		copy(n.children[i+1:], n.children[i:])
		n.children[i] = child
		return
	}
	n.children = append(n.children, child)
}

func (n *domNode) textContent() string {
	if n.id == "" {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.textContent())
	}
	return b.String()
}

func (n *domNode) setText(text string) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = []*domNode{{text: text, parent: n}}
}

// domModel replays outbound messages the way mirror.js applies them.
type domModel struct {
	nodes map[string]*domNode
}

func newDOMModel() *domModel {
	return &domModel{nodes: map[string]*domNode{"body": {id: "body"}}}
}

func (d *domModel) apply(t *testing.T, msgs []message.Message) {
	t.Helper()
	for _, m := range msgs {
		id := str(m, "id")
		switch m.Event() {
		case message.EventCreate:
			parent := d.nodes[str(m, "parent")]
			if parent == nil {
				t.Fatalf("create under unknown parent: %#v", m)
			}
			pos, _ := m.Get("position")
			if id == "" {
				parent.insert(&domNode{text: str(m, "text")}, pos)
				continue
			}
			n := &domNode{id: id}
			if text, ok := m.GetString("text"); ok {
				n.setText(text)
			}
			d.nodes[id] = n
			parent.insert(n, pos)
		case message.EventUpdate:
			n := d.nodes[id]
			if n == nil {
				continue
			}
			if parent := d.nodes[str(m, "parent")]; parent != nil {
				pos, _ := m.Get("position")
				n.detach()
				parent.insert(n, pos)
			}
			if text, ok := m.GetString("text"); ok {
				n.setText(text)
			}
		case message.EventRemove:
			if n := d.nodes[id]; n != nil {
				n.detach()
				d.forget(n)
			}
		case message.EventClear:
			if n := d.nodes[id]; n != nil {
				for _, c := range n.children {
					c.parent = nil
					d.forget(c)
				}
				n.children = nil
			}
		}
	}
}

func (d *domModel) forget(n *domNode) {
	if n.id != "" {
		delete(d.nodes, n.id)
	}
	for _, c := range n.children {
		d.forget(c)
	}
}

func TestClientReplayMatchesServerOrder(t *testing.T) {
	s, rec := newSession(t)
	a, b, c := el.Li("a"), el.Li("b"), el.Li("c")
	list := el.Ul(a, b, c)
	s.SetRoot(list)
	flush(t, s)

	dom := newDOMModel()
	dom.apply(t, rec.Messages())
	rec.Reset()

	moves := []struct {
		name string
		move func()
		want string
	}{
		{"forward one", func() { list.Insert(1, a) }, "bac"},
		{"forward to end", func() { list.Insert(2, b) }, "acb"},
		{"backward", func() { list.Insert(0, b) }, "bac"},
		{"append", func() { list.Append(b) }, "acb"},
		{"same place", func() { list.Insert(1, c) }, "acb"},
	}
	for _, mv := range moves {
		s.Do(mv.move)
		flush(t, s)
		dom.apply(t, rec.Messages())
		rec.Reset()

		if got := list.Text(); got != mv.want {
			t.Fatalf("%s: server order = %q, want %q", mv.name, got, mv.want)
		}
		if got := dom.nodes[list.ID()].textContent(); got != mv.want {
			t.Fatalf("%s: client order = %q, want %q", mv.name, got, mv.want)
		}
	}
}

func TestClientReplayForgetsRemovedSubtrees(t *testing.T) {
	s, rec := newSession(t)
	inner := el.Span("x")
	item := el.Li(inner)
	list := el.Ul(item, el.Li("y"))
	s.SetRoot(el.Div(list))
	flush(t, s)

	dom := newDOMModel()
	dom.apply(t, rec.Messages())
	rec.Reset()

	s.Do(func() { item.Remove() })
	flush(t, s)
	dom.apply(t, rec.Messages())
	if dom.nodes[item.ID()] != nil || dom.nodes[inner.ID()] != nil {
		t.Fatal("removed subtree still addressable")
	}

	rec.Reset()
	s.Do(func() { list.Clear() })
	flush(t, s)
	dom.apply(t, rec.Messages())
	if len(dom.nodes) != 3 {
		t.Fatalf("nodes after clear = %d, want body, div and ul", len(dom.nodes))
	}
}
