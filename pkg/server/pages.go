package server

import (
	"regexp"
	"strings"

	"github.com/vango-dev/mirror/el"
	"github.com/vango-dev/mirror/pkg/live"
)

// PageFunc builds the root element of a page. args holds the groups a
// regexp pattern captured; it is empty for exact patterns.
type PageFunc func(loc *live.Location, args ...string) live.Node

type page struct {
	pattern string
	re      *regexp.Regexp
	build   PageFunc
}

// Pages routes a location's path to a page. Patterns are tried in
// registration order; the first match wins.
type Pages struct {
	pages    []page
	notFound PageFunc
}

var _ live.Router = (*Pages)(nil)

// NewPages creates a router with the default 404 page.
func NewPages() *Pages {
	return &Pages{notFound: notFoundPage}
}

// Page registers fn for an exact path.
func (p *Pages) Page(path string, fn PageFunc) *Pages {
	p.pages = append(p.pages, page{pattern: cleanPath(path), build: fn})
	return p
}

// PageRegexp registers fn for paths matching pattern. The pattern is
// anchored at both ends. It panics if pattern does not compile.
func (p *Pages) PageRegexp(pattern string, fn PageFunc) *Pages {
	re := regexp.MustCompile("^(?:" + pattern + ")$")
	p.pages = append(p.pages, page{pattern: pattern, re: re, build: fn})
	return p
}

// NotFound replaces the 404 page.
func (p *Pages) NotFound(fn PageFunc) *Pages {
	if fn != nil {
		p.notFound = fn
	}
	return p
}

// Match returns the page for path and the groups its pattern captured.
func (p *Pages) Match(path string) (PageFunc, []string, bool) {
	path = cleanPath(path)
	for _, pg := range p.pages {
		if pg.re == nil {
			if pg.pattern == path {
				return pg.build, nil, true
			}
			continue
		}
		if m := pg.re.FindStringSubmatch(path); m != nil {
			return pg.build, m[1:], true
		}
	}
	return nil, nil, false
}

// Route implements live.Router.
func (p *Pages) Route(loc *live.Location) live.Node {
	build, args, ok := p.Match(loc.Path())
	if !ok {
		return p.notFound(loc)
	}
	return build(loc, args...)
}

func notFoundPage(loc *live.Location, _ ...string) live.Node {
	return el.Div(
		el.Class("mirror-not-found"),
		el.H1("404"),
		el.P(el.Textf("No page at %s", loc.Path())),
		el.A("/", "Home"),
	)
}

// cleanPath collapses repeated slashes, resolves dot segments and drops a
// trailing slash. The result always starts with "/".
func cleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	var out []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/")
}
