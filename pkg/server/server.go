package server

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	clientdist "github.com/vango-dev/mirror/client/dist"
	"github.com/vango-dev/mirror/el"
	"github.com/vango-dev/mirror/pkg/live"
)

// ClientPath is where the thin client script is served.
const ClientPath = "/_mirror/client.js"

var clientETag = func() string {
	sum := sha256.Sum256(clientdist.MirrorJS)
	return fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:8]))
}()

// Server serves the index page, the thin client and one WebSocket
// connection per session.
type Server struct {
	config   *ServerConfig
	logger   *slog.Logger
	router   chi.Router
	upgrader websocket.Upgrader

	host     *Host
	pages    *Pages
	sessions *SessionManager
	metrics  *Metrics
	tracer   *tracer

	// ctx parents every session context; cancelled by Shutdown.
	ctx    context.Context
	cancel context.CancelFunc

	index []byte

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a server routing loads through pages. Zero values in config
// are replaced by defaults; a nil pages serves only the 404 page.
func New(config *ServerConfig, pages *Pages) *Server {
	config = config.withDefaults()
	if pages == nil {
		pages = NewPages()
	}
	logger := config.Logger.With("component", "server")

	var metrics *Metrics
	if config.Metrics.Enabled {
		metrics = NewMetrics(config.Metrics)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config: config,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		host:     NewHost(config.Uploads, metrics, logger),
		pages:    pages,
		sessions: NewSessionManager(config.MaxSessions, logger),
		metrics:  metrics,
		tracer:   newTracer(config.Tracing),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.index = s.renderIndex()
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.HandleWebSocket)
	r.Post("/upload/{token}", s.host.receiveUpload)
	r.Get("/tmp/{id}", s.host.serveFile)
	r.Get(ClientPath, s.serveClient)
	if s.metrics != nil {
		r.Method(http.MethodGet, s.config.Metrics.Path, s.metrics.Handler())
	}
	if s.config.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.config.StaticDir))))
	}
	// Every other GET boots the client; the page router picks the page.
	r.Get("/*", s.serveIndex)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Pages returns the page router.
func (s *Server) Pages() *Pages {
	return s.pages
}

// Host returns the shared-file and upload table.
func (s *Server) Host() *Host {
	return s.host
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Metrics returns the collectors, or nil when metrics are disabled.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Config returns the effective configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// HandleWebSocket upgrades the request and starts a session for it.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.reserve(); err != nil {
		s.metrics.sessionRejected()
		s.logger.Warn("connection refused", "remote", r.RemoteAddr, "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(s, conn, r)
	if err := s.sessions.add(c); err != nil {
		s.metrics.sessionRejected()
		c.logger.Warn("connection refused", "error", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(time.Second))
		_ = conn.Close()
		c.session.Close()
		return
	}
	s.metrics.sessionOpened()
	c.logger.Info("session connected", "remote", r.RemoteAddr, "request_id", middleware.GetReqID(r.Context()))
	c.Start()
}

func (s *Server) renderIndex() []byte {
	head := el.Head(
		el.Tag("meta", el.Attribute("charset", "utf-8")),
		el.Tag("meta", el.Name("viewport"), el.Attribute("content", "width=device-width, initial-scale=1")),
		el.Tag("title", s.config.Title),
		el.Tag("script", el.Src(ClientPath), el.Attribute("defer", true)),
	)
	doc := el.Html(head, el.Body())
	return []byte("<!DOCTYPE html>\n" + live.RenderHTML(doc))
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(s.index)
}

func (s *Server) serveClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", clientETag)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")
	if r.Header.Get("If-None-Match") == clientETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	_, _ = w.Write(clientdist.MirrorJS)
}

// Run listens on the configured address until ctx is done, SIGINT or
// SIGTERM arrives, or the listener fails, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if s.config.Uploads.Store != nil {
		go s.cleanupUploads(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// cleanupUploads removes expired uploads until ctx is done.
func (s *Server) cleanupUploads(ctx context.Context) {
	interval := s.config.Uploads.MaxAge / 2
	if interval > time.Hour || interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.config.Uploads.Store.Cleanup(ctx, s.config.Uploads.MaxAge); err != nil {
				s.logger.Warn("upload cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Shutdown closes every session, then stops the HTTP server. It waits at
// most ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	err := s.sessions.Shutdown(ctx)
	s.cancel()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv != nil {
		if herr := srv.Shutdown(ctx); herr != nil {
			s.logger.Error("shutdown error", "error", herr)
			return herr
		}
	}

	s.logger.Info("server shutdown complete")
	return err
}
