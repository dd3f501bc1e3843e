// This file contains the plain tag constructors.
package el

import "github.com/vango-dev/mirror/pkg/live"

func Html(args ...any) *Elem {
	return live.New("html", args...)
}
func Head(args ...any) *Elem {
	return live.New("head", args...)
}
func Body(args ...any) *Elem {
	return live.New("body", args...)
}
func Header(args ...any) *Elem {
	return live.New("header", args...)
}
func Footer(args ...any) *Elem {
	return live.New("footer", args...)
}
func Main(args ...any) *Elem {
	return live.New("main", args...)
}
func Nav(args ...any) *Elem {
	return live.New("nav", args...)
}
func Section(args ...any) *Elem {
	return live.New("section", args...)
}
func Article(args ...any) *Elem {
	return live.New("article", args...)
}
func Aside(args ...any) *Elem {
	return live.New("aside", args...)
}
func H1(args ...any) *Elem {
	return live.New("h1", args...)
}
func H2(args ...any) *Elem {
	return live.New("h2", args...)
}
func H3(args ...any) *Elem {
	return live.New("h3", args...)
}
func H4(args ...any) *Elem {
	return live.New("h4", args...)
}
func H5(args ...any) *Elem {
	return live.New("h5", args...)
}
func H6(args ...any) *Elem {
	return live.New("h6", args...)
}
func Div(args ...any) *Elem {
	return live.New("div", args...)
}
func P(args ...any) *Elem {
	return live.New("p", args...)
}
func Span(args ...any) *Elem {
	return live.New("span", args...)
}
func Pre(args ...any) *Elem {
	return live.New("pre", args...)
}
func Code(args ...any) *Elem {
	return live.New("code", args...)
}
func Blockquote(args ...any) *Elem {
	return live.New("blockquote", args...)
}
func Strong(args ...any) *Elem {
	return live.New("strong", args...)
}
func Em(args ...any) *Elem {
	return live.New("em", args...)
}
func Small(args ...any) *Elem {
	return live.New("small", args...)
}
func Mark(args ...any) *Elem {
	return live.New("mark", args...)
}
func Br(args ...any) *Elem {
	return live.New("br", args...)
}
func Hr(args ...any) *Elem {
	return live.New("hr", args...)
}
func Ul(args ...any) *Elem {
	return live.New("ul", args...)
}
func Ol(args ...any) *Elem {
	return live.New("ol", args...)
}
func Li(args ...any) *Elem {
	return live.New("li", args...)
}
func Dl(args ...any) *Elem {
	return live.New("dl", args...)
}
func Dt(args ...any) *Elem {
	return live.New("dt", args...)
}
func Dd(args ...any) *Elem {
	return live.New("dd", args...)
}
func Table(args ...any) *Elem {
	return live.New("table", args...)
}
func Thead(args ...any) *Elem {
	return live.New("thead", args...)
}
func Tbody(args ...any) *Elem {
	return live.New("tbody", args...)
}
func Tr(args ...any) *Elem {
	return live.New("tr", args...)
}
func Th(args ...any) *Elem {
	return live.New("th", args...)
}
func Td(args ...any) *Elem {
	return live.New("td", args...)
}
func Form(args ...any) *Elem {
	return live.New("form", args...)
}
func Label(args ...any) *Elem {
	return live.New("label", args...)
}
func Fieldset(args ...any) *Elem {
	return live.New("fieldset", args...)
}
func Legend(args ...any) *Elem {
	return live.New("legend", args...)
}
func Option(args ...any) *Elem {
	return live.New("option", args...)
}
func Figure(args ...any) *Elem {
	return live.New("figure", args...)
}
func Figcaption(args ...any) *Elem {
	return live.New("figcaption", args...)
}
func Img(args ...any) *Elem {
	return live.New("img", args...)
}
func Video(args ...any) *Elem {
	return live.New("video", args...)
}
func Audio(args ...any) *Elem {
	return live.New("audio", args...)
}
func Canvas(args ...any) *Elem {
	return live.New("canvas", args...)
}
func Svg(args ...any) *Elem {
	return live.New("svg", args...)
}
func Details(args ...any) *Elem {
	return live.New("details", args...)
}
func Summary(args ...any) *Elem {
	return live.New("summary", args...)
}
func Dialog(args ...any) *Elem {
	return live.New("dialog", args...)
}
func Progress(args ...any) *Elem {
	return live.New("progress", args...)
}
func LinkEl(args ...any) *Elem {
	return live.New("link", args...)
}

// Tag creates an element with an arbitrary tag name.
func Tag(name string, args ...any) *Elem {
	return live.New(name, args...)
}
