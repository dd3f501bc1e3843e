// This file contains attribute helpers.
package el

import (
	"strings"

	"github.com/vango-dev/mirror/pkg/live"
)

// Attribute sets an arbitrary attribute.
func Attribute(key string, value any) Attr {
	return live.Attr{Key: key, Value: value}
}

// Class adds class names. Each argument may hold several names separated
// by spaces.
func Class(classes ...string) Attr {
	return live.Attr{Key: "class", Value: strings.Join(classes, " ")}
}

// Style sets style properties.
func Style(style map[string]string) Attr {
	return live.Attr{Key: "style", Value: style}
}

// Data sets a data-* attribute.
func Data(key, value string) Attr {
	return live.Attr{Key: "data-" + key, Value: value}
}

func Title(title string) Attr {
	return live.Attr{Key: "title", Value: title}
}

func Role(role string) Attr {
	return live.Attr{Key: "role", Value: role}
}

func AriaLabel(label string) Attr {
	return live.Attr{Key: "aria-label", Value: label}
}

// Hidden sets the boolean hidden attribute. false omits it.
func Hidden(hidden bool) Attr {
	return boolAttr("hidden", hidden)
}

func Href(url string) Attr {
	return live.Attr{Key: "href", Value: url}
}

func Src(url string) Attr {
	return live.Attr{Key: "src", Value: url}
}

func Alt(text string) Attr {
	return live.Attr{Key: "alt", Value: text}
}

func Type(t string) Attr {
	return live.Attr{Key: "type", Value: t}
}

func Name(name string) Attr {
	return live.Attr{Key: "name", Value: name}
}

func For(id string) Attr {
	return live.Attr{Key: "for", Value: id}
}

func Rel(rel string) Attr {
	return live.Attr{Key: "rel", Value: rel}
}

func Target(target string) Attr {
	return live.Attr{Key: "target", Value: target}
}

func Download(filename string) Attr {
	return live.Attr{Key: "download", Value: filename}
}

func Width(w int) Attr {
	return live.Attr{Key: "width", Value: w}
}

func Height(h int) Attr {
	return live.Attr{Key: "height", Value: h}
}

func boolAttr(key string, on bool) Attr {
	if !on {
		return live.Attr{Key: key}
	}
	return live.Attr{Key: key, Value: true}
}
