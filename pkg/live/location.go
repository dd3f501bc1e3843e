package live

import (
	"fmt"
	"net/url"

	"github.com/vango-dev/mirror/pkg/message"
	"github.com/vango-dev/mirror/pkg/reactive"
)

// Location mirrors the client's URL. Reads are reactive: an effect or
// computed that reads the location re-runs on navigation.
type Location struct {
	s    *Session
	href *reactive.Signal[string]
}

func newLocation(s *Session) *Location {
	return &Location{s: s, href: reactive.NewSignal("/")}
}

// URL returns a copy of the parsed location.
func (l *Location) URL() *url.URL {
	u, err := url.Parse(l.href.Get())
	if err != nil {
		return &url.URL{Path: "/"}
	}
	return u
}

// Href returns the location as a string.
func (l *Location) Href() string {
	return l.href.Get()
}

// Path returns the URL path.
func (l *Location) Path() string {
	return l.URL().Path
}

// Query returns the parsed query parameters.
func (l *Location) Query() url.Values {
	return l.URL().Query()
}

// Param returns one query parameter.
func (l *Location) Param(key string) string {
	return l.Query().Get(key)
}

// Hash returns the fragment without the leading '#'.
func (l *Location) Hash() string {
	return l.URL().Fragment
}

// Assign navigates the client to rawURL with a full page load.
func (l *Location) Assign(rawURL string) {
	l.s.Send(message.Location(rawURL))
}

// set updates the mirror. Relative references resolve against the current
// location.
func (l *Location) set(rawURL string) error {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	base, err := url.Parse(l.href.Peek())
	if err != nil {
		return fmt.Errorf("live: current location: %w", err)
	}
	u := base.ResolveReference(ref)
	// Only the path, query and fragment are mirrored.
	u.Scheme, u.Host, u.User = "", "", nil
	if u.Path == "" {
		u.Path = "/"
	}
	l.href.Set(u.String())
	return nil
}
