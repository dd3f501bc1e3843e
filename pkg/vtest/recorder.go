package vtest

import (
	"context"
	"sync"
	"testing"

	"github.com/vango-dev/mirror/pkg/live"
	"github.com/vango-dev/mirror/pkg/message"
)

// Recorder implements live.Conn and live.Host in memory.
type Recorder struct {
	mu      sync.Mutex
	frames  [][]byte
	cookies map[string]string
	files   map[string]string
	uploads map[string]func([]live.UploadedFile)
	sendErr error
}

var (
	_ live.Conn = (*Recorder)(nil)
	_ live.Host = (*Recorder)(nil)
)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		cookies: make(map[string]string),
		files:   make(map[string]string),
		uploads: make(map[string]func([]live.UploadedFile)),
	}
}

// NewSession creates a session backed by a new recorder. The session is
// closed when the test ends.
func NewSession(t testing.TB, opts ...live.Option) (*live.Session, *Recorder) {
	t.Helper()
	rec := NewRecorder()
	s := live.NewSession(rec, rec, opts...)
	t.Cleanup(s.Close)
	return s, rec
}

// Send implements live.Conn.
func (r *Recorder) Send(ctx context.Context, frame []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sendErr != nil {
		return r.sendErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	r.frames = append(r.frames, cp)
	return nil
}

// Cookie implements live.Conn.
func (r *Recorder) Cookie(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.cookies[name]
	return v, ok
}

// SetCookie sets a cookie the session will see.
func (r *Recorder) SetCookie(name, value string) {
	r.mu.Lock()
	r.cookies[name] = value
	r.mu.Unlock()
}

// ShareFile implements live.Host.
func (r *Recorder) ShareFile(url, path string) {
	r.mu.Lock()
	r.files[url] = path
	r.mu.Unlock()
}

// AcceptUploads implements live.Host.
func (r *Recorder) AcceptUploads(url string, callback func([]live.UploadedFile)) {
	r.mu.Lock()
	r.uploads[url] = callback
	r.mu.Unlock()
}

// SharedFile returns the path registered for url.
func (r *Recorder) SharedFile(url string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.files[url]
	return p, ok
}

// Upload delivers files to the endpoint at url. It reports false if no
// endpoint is registered there.
func (r *Recorder) Upload(url string, files ...live.UploadedFile) bool {
	r.mu.Lock()
	cb, ok := r.uploads[url]
	r.mu.Unlock()
	if !ok {
		return false
	}
	cb(files)
	return true
}

// FailSends makes every following Send return err. A nil err restores
// normal operation.
func (r *Recorder) FailSends(err error) {
	r.mu.Lock()
	r.sendErr = err
	r.mu.Unlock()
}

// Frames returns copies of the raw frames received so far.
func (r *Recorder) Frames() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.frames))
	copy(out, r.frames)
	return out
}

// Messages decodes every frame received so far, flush markers included.
// Frames that fail to decode are skipped.
func (r *Recorder) Messages() []message.Message {
	frames := r.Frames()
	out := make([]message.Message, 0, len(frames))
	for _, f := range frames {
		m, err := message.Parse(f)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Events returns the received messages with the given event name.
func (r *Recorder) Events(event string) []message.Message {
	var out []message.Message
	for _, m := range r.Messages() {
		if m.Event() == event {
			out = append(out, m)
		}
	}
	return out
}

// Reset forgets the received frames.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.frames = nil
	r.mu.Unlock()
}
