package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/mirror/internal/ids"
	"github.com/vango-dev/mirror/pkg/live"
	"github.com/vango-dev/mirror/pkg/message"
)

// Client is one WebSocket connection and the session it drives. It
// implements live.Conn for its session.
type Client struct {
	server  *Server
	conn    *websocket.Conn
	session *live.Session
	cookies map[string]string
	logger  *slog.Logger

	// events buffers inbound frames between the read loop and the event loop.
	events chan []byte
	done   chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
}

var _ live.Conn = (*Client)(nil)

func newClient(s *Server, conn *websocket.Conn, r *http.Request) *Client {
	c := &Client{
		server:  s,
		conn:    conn,
		cookies: make(map[string]string),
		logger:  s.logger,
		events:  make(chan []byte, s.config.MaxEventQueue),
		done:    make(chan struct{}),
	}
	for _, ck := range r.Cookies() {
		c.cookies[ck.Name] = ck.Value
	}
	c.session = live.NewSession(s.host, c,
		live.WithLogger(s.logger),
		live.WithContext(s.ctx),
		live.WithRouter(s.pages),
		live.WithErrorHook(c.reportFailure),
	)
	c.session.ID()
	c.logger = c.session.Logger()
	return c
}

// Session returns the client's session.
func (c *Client) Session() *live.Session {
	return c.session
}

// Send implements live.Conn. Writes are serialized and bounded by the
// write timeout or ctx's deadline, whichever comes first.
func (c *Client) Send(ctx context.Context, frame []byte) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.server.config.WriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return NewSessionError(c.session.ID(), "write", err)
	}
	c.server.metrics.sent(len(frame))
	return nil
}

// Cookie implements live.Conn with the cookies of the upgrade request.
func (c *Client) Cookie(name string) (string, bool) {
	v, ok := c.cookies[name]
	return v, ok
}

// Start shares the configured stylesheets and launches the connection loops.
func (c *Client) Start() {
	c.linkStylesheets()
	if err := c.session.Flush(c.session.Context()); err != nil {
		c.logger.Warn("initial flush failed", "error", err)
	}

	go c.ReadLoop()
	go c.WriteLoop()
	go c.EventLoop()
}

func (c *Client) linkStylesheets() {
	if len(c.server.config.Stylesheets) == 0 {
		return
	}
	c.session.Do(func() {
		for _, path := range c.server.config.Stylesheets {
			url := c.session.Share(path)
			c.session.Send(message.Create("link", ids.Next(), "head", map[string]any{
				"rel":  "stylesheet",
				"type": "text/css",
				"href": url,
			}))
		}
	})
}

// ReadLoop reads frames from the connection and queues them for the event
// loop. It blocks until the connection fails or is closed.
func (c *Client) ReadLoop() {
	defer c.Close()

	cfg := c.server.config
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		kind, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.logger.Error("read error", "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		if kind != websocket.TextMessage {
			c.logger.Warn("ignoring non-text frame", "type", kind)
			continue
		}
		if err := c.queue(frame); err != nil {
			c.logger.Warn("event dropped", "error", err, "queue", cap(c.events))
		}
	}
}

func (c *Client) queue(frame []byte) error {
	select {
	case c.events <- frame:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		c.server.metrics.eventDropped()
		return ErrEventQueueFull
	}
}

// WriteLoop sends heartbeat pings until the connection closes.
func (c *Client) WriteLoop() {
	ticker := time.NewTicker(c.server.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(c.server.config.WriteTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.logger.Debug("ping failed", "error", err)
				c.Close()
				return
			}

		case <-c.done:
			return
		}
	}
}

// EventLoop hands queued frames to the session one at a time.
func (c *Client) EventLoop() {
	for {
		select {
		case frame := <-c.events:
			c.handleFrame(frame)

		case <-c.done:
			return
		}
	}
}

// handleFrame dispatches one frame inside a span and flushes the result.
func (c *Client) handleFrame(frame []byte) {
	start := time.Now()

	msg, parseErr := message.Parse(frame)
	ctx, span := c.server.tracer.start(c.session.Context(), c.session.ID(), msg)

	var (
		err    error
		failed bool
	)
	if parseErr != nil {
		failed = true
		err = c.session.HandleMessage(ctx, frame)
	} else {
		failed = c.session.Dispatch(msg)
		err = c.session.Flush(ctx)
	}
	end(span, failed, err)

	event := msg.Event()
	if parseErr != nil {
		event = "invalid"
	}
	status := "ok"
	if failed || err != nil {
		status = "error"
	}
	c.server.metrics.event(event, status, time.Since(start))

	if err != nil {
		c.logger.Error("flush failed", "event", event, "error", err)
		c.Close()
	}
}

func (c *Client) reportFailure(err error) {
	c.server.metrics.failure(err)
}

// Close closes the connection and the session. It is idempotent.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)

		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = c.conn.Close()
		c.writeMu.Unlock()

		c.session.Close()
		c.server.sessions.remove(c)
		c.server.metrics.sessionClosed()
	})
}

// Done is closed when the client closes.
func (c *Client) Done() <-chan struct{} {
	return c.done
}
