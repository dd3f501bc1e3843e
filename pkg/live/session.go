package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	mirrorerrors "github.com/vango-dev/mirror/internal/errors"
	"github.com/vango-dev/mirror/internal/ids"
	"github.com/vango-dev/mirror/pkg/message"
	"github.com/vango-dev/mirror/pkg/reactive"
)

// SessionCookie is the cookie holding the session id on the client.
const SessionCookie = "MIRROR_SESSION"

// Conn is the client side of a session as seen by the runtime.
type Conn interface {
	// Send delivers one serialized message.
	Send(ctx context.Context, frame []byte) error

	// Cookie returns a cookie sent by the client when it connected.
	Cookie(name string) (string, bool)
}

// Host is the transport's process-wide side channel for files and uploads.
type Host interface {
	// ShareFile serves path verbatim at url.
	ShareFile(url, path string)

	// AcceptUploads registers an upload endpoint at url.
	AcceptUploads(url string, callback func(files []UploadedFile))
}

// UploadedFile describes one file received by an upload endpoint.
type UploadedFile struct {
	Name     string `json:"name"`
	TempPath string `json:"temp_path"`
	Size     int64  `json:"size"`
}

// UploadEvent is passed to the handler of an upload gate.
type UploadEvent struct {
	Files []UploadedFile
}

// Router builds the root element for a location.
type Router interface {
	Route(loc *Location) Node
}

// RouterFunc adapts a function to Router.
type RouterFunc func(loc *Location) Node

// Route implements Router.
func (f RouterFunc) Route(loc *Location) Node {
	return f(loc)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the base logger. The session adds its id to it.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.baseLogger = l
		}
	}
}

// WithContext sets the parent of the session's task context.
func WithContext(ctx context.Context) Option {
	return func(s *Session) {
		if ctx != nil {
			s.parent = ctx
		}
	}
}

// WithRouter sets the router used to build the root on load.
func WithRouter(r Router) Option {
	return func(s *Session) {
		s.router = r
	}
}

// WithErrorHook registers a function called for every reported failure,
// after it is logged. Used for metrics.
func WithErrorHook(fn func(error)) Option {
	return func(s *Session) {
		s.onError = fn
	}
}

type sharedFile struct {
	url, path string
}

type uploadGate struct {
	url      string
	callback func([]UploadedFile)
}

// Session is the per-connection runtime context.
//
// A session is a monitor: handlers, mounts and tasks of one session never
// run at the same time, while different sessions are independent. Inside
// the monitor the session is "current" for the goroutine (see Current), so
// element mutations know where to send their messages.
type Session struct {
	host Host
	conn Conn

	baseLogger *slog.Logger
	logger     atomic.Pointer[slog.Logger]

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	// turn is held by whichever extent is running inside the session.
	turn sync.Mutex

	// flushMu serializes flushes so batches reach the transport in order.
	flushMu sync.Mutex

	qmu     sync.Mutex
	queue   [][]byte
	files   []sharedFile
	uploads []uploadGate

	regMu   sync.RWMutex
	mounted map[string]*Elem

	functions map[string]bool

	root     *Elem
	router   Router
	location *Location
	history  *History
	storage  *Storage

	idOnce sync.Once
	id     string

	onError func(error)

	// Guarded by turn. failures counts reported failures so Dispatch can
	// tell whether its own extent failed; mutating is the depth of mounts
	// and unmounts in progress.
	failures int
	mutating int

	tasks  sync.WaitGroup
	closed atomic.Bool
}

// NewSession creates a session for one connection.
func NewSession(host Host, conn Conn, opts ...Option) *Session {
	s := &Session{
		host:       host,
		conn:       conn,
		baseLogger: slog.Default(),
		parent:     context.Background(),
		mounted:    make(map[string]*Elem),
		functions:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(s.parent)
	s.location = newLocation(s)
	s.history = newHistory(s)
	s.storage = newStorage(s)
	return s
}

// Current returns the session bound to the calling goroutine, or nil.
func Current() *Session {
	switch c := reactive.CurrentCtx().(type) {
	case *Session:
		return c
	case *taskScope:
		return c.session
	}
	return nil
}

// Require returns the current session and panics if there is none.
func Require() *Session {
	s := Current()
	if s == nil {
		panic(mirrorerrors.New("E105"))
	}
	return s
}

// Do runs fn inside the session's monitor with the session current. A call
// from inside the session's own extent runs fn inline.
func (s *Session) Do(fn func()) {
	if Current() == s {
		fn()
		return
	}
	s.turn.Lock()
	defer s.turn.Unlock()
	reactive.WithCtx(s, fn)
}

// ID returns the session id. It is read from the session cookie when it
// carries a well-formed id; otherwise a new id is generated and sent to the
// client in a cookie message.
func (s *Session) ID() string {
	s.idOnce.Do(func() {
		if s.conn != nil {
			if id, ok := s.conn.Cookie(SessionCookie); ok && ids.ValidSession(id) {
				s.id = id
			}
		}
		if s.id == "" {
			s.id = ids.Session()
			s.Send(message.Cookie(SessionCookie, s.id, 1))
		}
		s.logger.Store(s.baseLogger.With("session_id", s.id))
	})
	return s.id
}

// Logger returns the session's logger. It carries the session id once the
// id is known.
func (s *Session) Logger() *slog.Logger {
	if l := s.logger.Load(); l != nil {
		return l
	}
	return s.baseLogger
}

// Context returns the session's context, cancelled by Close.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Send queues a message. A message that cannot be serialized is dropped,
// logged, and reported to the client; the rest of the queue is unaffected.
// Sends after Close are discarded.
func (s *Session) Send(m message.Message) {
	if s.closed.Load() {
		return
	}
	frame, err := m.Encode()
	if err != nil {
		werr := mirrorerrors.New("E110").WithDetail(m.Event()).Wrap(err)
		s.Logger().Error("message dropped", "event", m.Event(), "error", werr)
		if m.Event() != message.EventLog {
			s.Send(message.Log(message.LevelError, "Server error", werr.Error()))
		}
		return
	}
	s.qmu.Lock()
	s.queue = append(s.queue, frame)
	s.qmu.Unlock()
}

// Pending returns the number of queued messages.
func (s *Session) Pending() int {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	return len(s.queue)
}

// Log shows a severity-tagged message to the client.
func (s *Session) Log(level message.Level, msg string, details any) {
	s.Send(message.Log(level, msg, details))
}

// SetTitle sets the document title.
func (s *Session) SetTitle(title string) {
	s.Send(message.Title(title))
}

// SetTheme switches the client theme, "light" or "dark".
func (s *Session) SetTheme(theme string) {
	s.Send(message.Theme(theme))
}

var flushFrame = mustEncode(message.Flush())

func mustEncode(m message.Message) []byte {
	b, err := m.Encode()
	if err != nil {
		panic(err)
	}
	return b
}

// Flush registers queued shared files and upload endpoints with the host,
// then sends every queued message followed by a flush marker. It is the
// only operation that performs network I/O.
func (s *Session) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.qmu.Lock()
	frames, files, uploads := s.queue, s.files, s.uploads
	s.queue, s.files, s.uploads = nil, nil, nil
	s.qmu.Unlock()

	if s.host != nil {
		for _, f := range files {
			s.host.ShareFile(f.url, f.path)
		}
		for _, u := range uploads {
			s.host.AcceptUploads(u.url, u.callback)
		}
	} else if len(files)+len(uploads) > 0 {
		s.Logger().Warn("no host for shared files", "files", len(files), "uploads", len(uploads))
	}

	if len(frames) == 0 {
		return nil
	}
	if s.conn == nil {
		return ErrNoConnection
	}

	frames = append(frames, flushFrame)
	for i, f := range frames {
		if err := s.conn.Send(ctx, f); err != nil {
			return fmt.Errorf("live: flush message %d of %d: %w", i+1, len(frames), err)
		}
	}
	s.Logger().Debug("flushed", "messages", len(frames)-1)
	return nil
}

// Share makes a file available to the client and returns its URL. The
// transport learns about it on the next flush.
func (s *Session) Share(path string) string {
	url := "/tmp/" + ids.Random(8)
	s.qmu.Lock()
	s.files = append(s.files, sharedFile{url: url, path: path})
	s.qmu.Unlock()
	return url
}

// CreateUploadGate registers an upload endpoint and returns its URL. When
// files arrive, handler runs as a task of this session.
func (s *Session) CreateUploadGate(handler Handler[UploadEvent]) string {
	url := "/upload/" + ids.Random(8)
	callback := func(files []UploadedFile) {
		s.CreateTask(func(ctx context.Context) error {
			CallHandler(s, handler, UploadEvent{Files: files})
			return nil
		})
	}
	s.qmu.Lock()
	s.uploads = append(s.uploads, uploadGate{url: url, callback: callback})
	s.qmu.Unlock()
	return url
}

// Execute runs a client function. The function is declared on first use in
// this session.
func (s *Session) Execute(fn *JSFunction, args []any, store string) {
	s.Do(func() {
		if !s.functions[fn.ID()] {
			s.Send(message.Function(fn.ID(), fn.Params(), fn.Body()))
			s.functions[fn.ID()] = true
		}
		s.Send(message.Execute(fn.ID(), args, store))
	})
}

// Lookup returns the element mounted under id, or nil.
func (s *Session) Lookup(id string) *Elem {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	return s.mounted[id]
}

// Mounted returns the number of mounted elements.
func (s *Session) Mounted() int {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	return len(s.mounted)
}

func (s *Session) register(e *Elem) {
	s.regMu.Lock()
	s.mounted[e.id] = e
	s.regMu.Unlock()
}

func (s *Session) deregister(e *Elem) {
	s.regMu.Lock()
	if s.mounted[e.id] == e {
		delete(s.mounted, e.id)
	}
	s.regMu.Unlock()
}

// Root returns the root element, or nil.
func (s *Session) Root() *Elem {
	return s.root
}

// SetRoot unmounts the previous root, if any, and mounts root under the
// document body.
func (s *Session) SetRoot(root Node) {
	s.Do(func() {
		if s.root != nil && s.root.IsMounted() {
			s.root.Unmount()
		}
		s.root = nil
		if root == nil || reflectNil(root) {
			return
		}
		s.root = root.Base()
		s.root.Mount()
	})
}

// Location returns the mirror of the client's location.
func (s *Session) Location() *Location {
	return s.location
}

// History returns the mirror of the client's history.
func (s *Session) History() *History {
	return s.history
}

// Storage returns the mirror of the client's storage.
func (s *Session) Storage() *Storage {
	return s.storage
}

// Close ends the session: it cancels running tasks, unmounts the root
// without telling the client, and discards later sends. Close is
// idempotent.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.cancel()
	s.Do(func() {
		if s.root != nil && s.root.IsMounted() {
			s.root.unmountIn(s, false)
		}
	})
	s.qmu.Lock()
	s.queue, s.files, s.uploads = nil, nil, nil
	s.qmu.Unlock()
	s.Logger().Info("session closed")
}

// reportFailure logs err and shows it to the client. The caller holds the
// monitor.
func (s *Session) reportFailure(err error) {
	s.failures++
	var bad *BadRequestError
	var perr *PanicError
	switch {
	case errors.As(err, &bad):
		s.Logger().Warn("bad request", "event", bad.Event, "error", bad.Err)
		s.Log(message.LevelError, "Bad request", bad.Err.Error())
	case errors.As(err, &perr):
		s.Logger().Error("handler panic", "panic", perr.Value, "stack", string(perr.Stack))
		s.Log(message.LevelError, "Unexpected server error", perr.Error())
	default:
		s.Logger().Error("handler failed", "error", err)
		s.Log(message.LevelError, "Unexpected server error", err.Error())
	}
	if s.onError != nil {
		s.onError(err)
	}
}
