package live

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML renders a snapshot of n's subtree as HTML. Event flags such
// as onclick exist only on the wire and are left out. The result is meant
// for logs and tests; the client builds its DOM from messages.
func RenderHTML(n Node) string {
	var b strings.Builder
	if err := html.Render(&b, htmlNode(n.Base())); err != nil {
		return fmt.Sprintf("<!-- render %s: %v -->", n.Base().id, err)
	}
	return b.String()
}

func htmlNode(e *Elem) *html.Node {
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     e.tag,
		DataAtom: atom.Lookup([]byte(e.tag)),
	}
	node.Attr = append(node.Attr, html.Attribute{Key: "id", Val: e.id})

	attrs := e.Attrs()
	delete(attrs, "text")
	for _, k := range sortedKeys(attrs) {
		if strings.HasPrefix(k, "on") {
			continue
		}
		var val string
		switch v := attrs[k].(type) {
		case map[string]string:
			val = styleString(v)
		case bool:
			if !v {
				continue
			}
		default:
			val = fmt.Sprint(v)
		}
		node.Attr = append(node.Attr, html.Attribute{Key: k, Val: val})
	}

	for _, c := range e.children {
		if c.elem != nil {
			node.AppendChild(htmlNode(c.elem))
			continue
		}
		node.AppendChild(&html.Node{Type: html.TextNode, Data: c.text})
	}
	return node
}

func styleString(style map[string]string) string {
	parts := make([]string, 0, len(style))
	for _, k := range sortedKeys(style) {
		parts = append(parts, k+": "+style[k])
	}
	return strings.Join(parts, "; ")
}
