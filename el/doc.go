// Package el provides tag constructors and attribute helpers for building
// live element trees.
//
// Typical usage:
//
//	import . "github.com/vango-dev/mirror/el"
//
//	count := 0
//	label := Span("0")
//	Div(Class("counter"),
//	    label,
//	    Button("inc").OnClick(func() {
//	        count++
//	        label.SetText(strconv.Itoa(count))
//	    }),
//	)
//
// Plain constructors return *Elem. Interactive tags return wrapper types
// (ButtonElement, InputElement, SelectElement, AnchorElement,
// TextAreaElement) that carry the click, input or change capability.
package el
