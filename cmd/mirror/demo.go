package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vango-dev/mirror/el"
	"github.com/vango-dev/mirror/pkg/live"
	"github.com/vango-dev/mirror/pkg/reactive"
	"github.com/vango-dev/mirror/pkg/server"
)

// demoPages is the application served by "mirror serve".
func demoPages() *server.Pages {
	pages := server.NewPages()

	// navigate switches pages without a reload.
	navigate := func(href string) func() {
		return func() {
			s := live.Require()
			s.History().Push(nil, href)
			s.SetRoot(pages.Route(s.Location()))
		}
	}
	nav := func() live.Node {
		links := []string{"/", "/greet", "/users/1", "/slow", "/upload"}
		return el.Nav(el.Range(links, func(href string, _ int) live.Node {
			return el.A(href, href).OnClick(navigate(href))
		}))
	}

	pages.Page("/", func(loc *live.Location, _ ...string) live.Node {
		live.Require().SetTitle("Counter")
		count := reactive.NewSignal(0)
		label := el.Span()
		label.Effect(func() {
			label.SetText(fmt.Sprint(count.Get()))
		})
		theme := el.Select(el.Opt("light", "Light"), el.Opt("dark", "Dark")).
			OnChange(func(ev live.ChangeEvent) {
				live.Require().SetTheme(ev.Value)
			})
		return el.Div(
			nav(),
			el.H1("Counter"),
			el.P("Count: ", label),
			el.Button("-").OnClick(func() { count.Update(func(n int) int { return n - 1 }) }),
			el.Button("+").OnClick(func() { count.Update(func(n int) int { return n + 1 }) }),
			el.P("Theme: ", theme),
		)
	})

	pages.Page("/greet", func(loc *live.Location, _ ...string) live.Node {
		greeting := el.P("Hello, stranger")
		name := el.Input("text").SetPlaceholder("Your name")
		name.OnInput(func(ev live.InputEvent) {
			if strings.TrimSpace(ev.Value) == "" {
				greeting.SetText("Hello, stranger")
				return
			}
			greeting.SetText("Hello, " + ev.Value)
		})
		return el.Div(nav(), el.H1("Greeting"), name, greeting)
	})

	pages.PageRegexp(`/users/(\d+)`, func(loc *live.Location, args ...string) live.Node {
		return el.Div(
			nav(),
			el.H1(el.Textf("User %s", args[0])),
			el.P(el.Textf("Tab: %s", orDefault(loc.Param("tab"), "profile"))),
		)
	})

	pages.Page("/slow", func(loc *live.Location, _ ...string) live.Node {
		status := el.P("idle")
		start := el.Button("Start").OnClick(func() live.Task {
			status.SetText("working...")
			return func(ctx context.Context) error {
				s := live.Require()
				for i := 3; i > 0; i-- {
					status.SetText(fmt.Sprintf("%d...", i))
					if err := s.Flush(ctx); err != nil {
						return err
					}
					if err := live.Sleep(ctx, time.Second); err != nil {
						return err
					}
				}
				status.SetText("done")
				return nil
			}
		})
		return el.Div(nav(), el.H1("Background task"), start, status)
	})

	pages.Page("/upload", func(loc *live.Location, _ ...string) live.Node {
		list := el.Ul()
		gate := live.Require().CreateUploadGate(func(ev live.UploadEvent) {
			for _, f := range ev.Files {
				list.Append(el.Li(el.Textf("%s (%d bytes)", f.Name, f.Size)))
			}
		})
		form := el.Tag("form",
			el.Attribute("action", gate),
			el.Attribute("method", "post"),
			el.Attribute("enctype", "multipart/form-data"),
			el.Attribute("target", "upload-result"),
			el.Tag("input", el.Type("file"), el.Name("file"), el.Attribute("multiple", true)),
			el.Button("Upload", el.Type("submit")),
		)
		return el.Div(
			nav(),
			el.H1("Upload"),
			form,
			el.Tag("iframe", el.Name("upload-result"), el.Hidden(true)),
			list,
		)
	})

	return pages
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
