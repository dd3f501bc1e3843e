// This file contains the interactive element types.
package el

import "github.com/vango-dev/mirror/pkg/live"

// Typed properties shared by form controls.
var (
	Value       = live.NewProp[string]("value")
	Placeholder = live.NewProp[string]("placeholder")
	Disabled    = live.NewProp[bool]("disabled")
)

var (
	inputProps    = live.NewPropertyTable(Value, Placeholder, Disabled)
	textAreaProps = inputProps.With(live.NewProp[int]("rows"))
	selectProps   = live.NewPropertyTable(Value, Disabled)
)

// ButtonElement is a clickable button.
type ButtonElement struct {
	*live.Elem
	live.ClickSupport
}

// Button creates a button.
func Button(args ...any) *ButtonElement {
	b := &ButtonElement{Elem: live.New("button", args...)}
	b.ClickSupport = live.NewClickSupport(b.Elem)
	b.SetHost(b)
	return b
}

// OnClick registers a click handler.
func (b *ButtonElement) OnClick(h live.Handler[live.ClickEvent]) *ButtonElement {
	b.ClickSupport.OnClick(h)
	return b
}

// SetDisabled enables or disables the button.
func (b *ButtonElement) SetDisabled(disabled bool) *ButtonElement {
	if disabled {
		b.SetAttr("disabled", true)
	} else {
		b.RemoveAttr("disabled")
	}
	return b
}

// AnchorElement is a link that may also report clicks.
type AnchorElement struct {
	*live.Elem
	live.ClickSupport
}

// A creates a link to href.
func A(href string, args ...any) *AnchorElement {
	a := &AnchorElement{Elem: live.New("a", append([]any{Href(href)}, args...)...)}
	a.ClickSupport = live.NewClickSupport(a.Elem)
	a.SetHost(a)
	return a
}

// OnClick registers a click handler.
func (a *AnchorElement) OnClick(h live.Handler[live.ClickEvent]) *AnchorElement {
	a.ClickSupport.OnClick(h)
	return a
}

// Href returns the link target.
func (a *AnchorElement) Href() string {
	v, _ := a.Attr("href")
	s, _ := v.(string)
	return s
}

// InputElement is a text input. Its value mirrors what the user typed.
type InputElement struct {
	*live.Elem
	live.InputSupport
	live.ChangeSupport
}

// Input creates an input of the given type ("text" when empty).
func Input(inputType string, args ...any) *InputElement {
	if inputType == "" {
		inputType = "text"
	}
	in := &InputElement{Elem: live.New("input", append([]any{Type(inputType)}, args...)...)}
	in.SetProperties(inputProps)
	in.InputSupport = live.NewInputSupport(in.Elem)
	in.ChangeSupport = live.NewChangeSupport(in.Elem)
	in.SetHost(in)
	mirrorValue(in.Elem, in.InputSupport, in.ChangeSupport)
	return in
}

// Value returns the current value.
func (in *InputElement) Value() string {
	return Value.Get(in.Elem)
}

// SetValue replaces the value on the client.
func (in *InputElement) SetValue(v string) *InputElement {
	Value.Set(in.Elem, v)
	return in
}

// SetPlaceholder sets the placeholder text.
func (in *InputElement) SetPlaceholder(v string) *InputElement {
	Placeholder.Set(in.Elem, v)
	return in
}

// OnInput registers an input handler.
func (in *InputElement) OnInput(h live.Handler[live.InputEvent]) *InputElement {
	in.InputSupport.OnInput(h)
	return in
}

// OnChange registers a change handler.
func (in *InputElement) OnChange(h live.Handler[live.ChangeEvent]) *InputElement {
	in.ChangeSupport.OnChange(h)
	return in
}

// TextAreaElement is a multi-line text input.
type TextAreaElement struct {
	*live.Elem
	live.InputSupport
	live.ChangeSupport
}

// TextArea creates a text area.
func TextArea(args ...any) *TextAreaElement {
	ta := &TextAreaElement{Elem: live.New("textarea", args...)}
	ta.SetProperties(textAreaProps)
	ta.InputSupport = live.NewInputSupport(ta.Elem)
	ta.ChangeSupport = live.NewChangeSupport(ta.Elem)
	ta.SetHost(ta)
	mirrorValue(ta.Elem, ta.InputSupport, ta.ChangeSupport)
	return ta
}

// Value returns the current value.
func (ta *TextAreaElement) Value() string {
	return Value.Get(ta.Elem)
}

// OnInput registers an input handler.
func (ta *TextAreaElement) OnInput(h live.Handler[live.InputEvent]) *TextAreaElement {
	ta.InputSupport.OnInput(h)
	return ta
}

// OnChange registers a change handler.
func (ta *TextAreaElement) OnChange(h live.Handler[live.ChangeEvent]) *TextAreaElement {
	ta.ChangeSupport.OnChange(h)
	return ta
}

// SelectElement is a drop-down list.
type SelectElement struct {
	*live.Elem
	live.ChangeSupport
}

// Select creates a drop-down. Use Opt for its options.
func Select(args ...any) *SelectElement {
	sel := &SelectElement{Elem: live.New("select", args...)}
	sel.SetProperties(selectProps)
	sel.ChangeSupport = live.NewChangeSupport(sel.Elem)
	sel.SetHost(sel)
	sel.ChangeSupport.OnChange(func(ev live.ChangeEvent) {
		Value.Store(ev.Target, ev.Value)
	})
	return sel
}

// Value returns the selected value.
func (sel *SelectElement) Value() string {
	return Value.Get(sel.Elem)
}

// SetValue selects a value on the client.
func (sel *SelectElement) SetValue(v string) *SelectElement {
	Value.Set(sel.Elem, v)
	return sel
}

// OnChange registers a change handler.
func (sel *SelectElement) OnChange(h live.Handler[live.ChangeEvent]) *SelectElement {
	sel.ChangeSupport.OnChange(h)
	return sel
}

// Opt creates an option with a value and a label.
func Opt(value, label string) *Elem {
	return live.New("option", Attribute("value", value), label)
}

// mirrorValue keeps the value property in step with what the client
// reports, without echoing it back.
func mirrorValue(e *live.Elem, in live.InputSupport, ch live.ChangeSupport) {
	in.OnInput(func(ev live.InputEvent) {
		Value.Store(e, ev.Value)
	})
	ch.OnChange(func(ev live.ChangeEvent) {
		Value.Store(e, ev.Value)
	})
}
