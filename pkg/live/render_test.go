package live

import (
	"strings"
	"testing"
)

func TestRenderHTML(t *testing.T) {
	span := New("span", "a < b")
	div := New("div",
		Attr{Key: "class", Value: "card wide"},
		Attr{Key: "style", Value: map[string]string{"margin": "0", "color": "red"}},
		Attr{Key: "hidden", Value: true},
		Attr{Key: "onclick", Value: true},
		span,
	)

	got := RenderHTML(div)
	want := `<div id="` + div.ID() + `" class="card wide" hidden="" style="color: red; margin: 0">` +
		`<span id="` + span.ID() + `">a &lt; b</span></div>`
	if got != want {
		t.Errorf("RenderHTML() =\n%s\nwant\n%s", got, want)
	}
	if div.String() != got {
		t.Error("String() differs from RenderHTML")
	}
	if strings.Contains(got, "onclick") {
		t.Error("event flag rendered")
	}
}

func TestChildUnion(t *testing.T) {
	e := New("p")
	text := TextChild("hi")
	elem := ElemChild(e)

	if !text.IsText() || text.Text() != "hi" || text.Elem() != nil {
		t.Errorf("text child = %+v", text)
	}
	if elem.IsText() || elem.Elem() != e {
		t.Errorf("elem child = %+v", elem)
	}
}

func TestPropertyTable(t *testing.T) {
	rows := NewProp[int]("rows")
	label := NewProp[string]("label")
	base := NewPropertyTable(label)
	ext := base.With(rows)

	if got := ext.Names(); len(got) != 2 || got[0] != "label" || got[1] != "rows" {
		t.Errorf("Names() = %v", got)
	}
	if len(base.Names()) != 1 {
		t.Error("With modified the base table")
	}

	e := New("textarea").SetProperties(ext)
	if rows.IsSet(e) {
		t.Error("unset property reported as set")
	}
	rows.Set(e, 4)
	if rows.Get(e) != 4 {
		t.Errorf("Get() = %d", rows.Get(e))
	}
	if e.Attrs()["rows"] != 4 {
		t.Errorf("Attrs() = %v", e.Attrs())
	}
	rows.Clear(e)
	if _, ok := e.Attrs()["rows"]; ok {
		t.Error("cleared property still on the wire")
	}
}
