package live

import "github.com/vango-dev/mirror/internal/ids"

// JSFunction is a client-side procedure. Session.Execute declares it once
// per connection and then calls it.
//
//	add := live.NewJSFunction([]string{"a", "b"}, "return a + b")
//	s.Execute(add, []any{3, 4}, "sum")
type JSFunction struct {
	id     string
	params []string
	body   string
}

// NewJSFunction creates a function with the given parameter names and body.
func NewJSFunction(params []string, body string) *JSFunction {
	return &JSFunction{id: "fn" + ids.Random(6), params: params, body: body}
}

// ID returns the stable name the function is declared under.
func (f *JSFunction) ID() string { return f.id }

// Params returns the parameter names.
func (f *JSFunction) Params() []string { return f.params }

// Body returns the function body.
func (f *JSFunction) Body() string { return f.body }
