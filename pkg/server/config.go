package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/mirror/internal/config"
	"github.com/vango-dev/mirror/pkg/upload"
)

// ServerConfig holds configuration for the HTTP/WebSocket server.
type ServerConfig struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// Timeouts

	// ReadTimeout is the maximum time to wait for a frame from the client.
	// Pongs extend it. Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time for one WebSocket write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// Limits

	// MaxEventQueue is the size of a connection's inbound frame buffer.
	// Default: 256.
	MaxEventQueue int

	// MaxMessageSize is the maximum size of an incoming WebSocket frame.
	// Default: 64KB.
	MaxMessageSize int64

	// MaxSessions is the maximum number of concurrent sessions.
	// 0 means no limit.
	MaxSessions int

	// WebSocket buffer sizes. Default: 4096 each.
	ReadBufferSize  int
	WriteBufferSize int

	// AllowedOrigins lists hosts (with port) allowed to open a WebSocket in
	// addition to the request's own host. Ignored when CheckOrigin is set.
	AllowedOrigins []string

	// CheckOrigin validates the WebSocket request origin.
	// Default: same origin plus AllowedOrigins.
	CheckOrigin func(r *http.Request) bool

	// Pages

	// Title is the document title of the index page. Default: "mirror".
	Title string

	// StaticDir is served at /static/ when set.
	StaticDir string

	// Stylesheets are files shared with every session and linked into the
	// document head when it connects.
	Stylesheets []string

	Uploads UploadOptions
	Metrics MetricsOptions
	Tracing TracingOptions

	// Logger is the base logger. Default: slog.Default().
	Logger *slog.Logger
}

// UploadOptions configures upload endpoints.
type UploadOptions struct {
	// Store receives uploaded files. Nil disables uploads.
	Store upload.Store

	// MaxSize is the maximum request body size. Default: 10MB.
	MaxSize int64

	// AllowedTypes lists allowed MIME types. Empty allows all.
	AllowedTypes []string

	// MaxAge is how long stored uploads are kept. Run removes older files
	// periodically. Default: 24 hours.
	MaxAge time.Duration
}

// MetricsOptions configures Prometheus metrics.
type MetricsOptions struct {
	Enabled bool

	// Path is where metrics are exposed. Default: "/metrics".
	Path string

	// Namespace prefixes every metric. Default: "mirror".
	Namespace string

	// Registry registers the collectors.
	// Default: a new registry owned by the server.
	Registry *prometheus.Registry
}

// TracingOptions configures OpenTelemetry spans.
type TracingOptions struct {
	Enabled bool

	// TracerName is the tracer name. Default: "mirror".
	TracerName string
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":8080",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxEventQueue:     256,
		MaxMessageSize:    64 * 1024,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		Title:             "mirror",
		Uploads: UploadOptions{
			MaxSize: upload.DefaultConfig().MaxSize,
			MaxAge:  24 * time.Hour,
		},
		Metrics: MetricsOptions{
			Path:      "/metrics",
			Namespace: "mirror",
		},
		Tracing: TracingOptions{
			TracerName: "mirror",
		},
	}
}

// FromConfig derives a ServerConfig from mirror.yaml settings. It creates
// the upload store for the configured backend.
func FromConfig(cfg *config.Config) (*ServerConfig, error) {
	sc := DefaultServerConfig()
	sc.Address = cfg.Addr()
	sc.ReadTimeout = cfg.Server.ReadTimeout
	sc.WriteTimeout = cfg.Server.WriteTimeout
	sc.HeartbeatInterval = cfg.Server.HeartbeatInterval
	sc.ShutdownTimeout = cfg.Server.ShutdownTimeout
	sc.MaxEventQueue = cfg.Server.MaxEventQueue
	sc.AllowedOrigins = cfg.Server.AllowedOrigins
	sc.StaticDir = cfg.Static.Dir
	sc.Stylesheets = cfg.Static.Stylesheets
	sc.Metrics.Enabled = cfg.Metrics.Enabled
	sc.Metrics.Path = cfg.Metrics.Path
	sc.Metrics.Namespace = cfg.Metrics.Namespace
	sc.Tracing.Enabled = cfg.Tracing.Enabled
	sc.Tracing.TracerName = cfg.Tracing.TracerName

	if cfg.Upload.Enabled {
		sc.Uploads.MaxSize = cfg.Upload.MaxSize
		switch cfg.Upload.Backend {
		case config.BackendS3:
			client := upload.NewS3Client(cfg.Upload.Region, cfg.Upload.Endpoint)
			sc.Uploads.Store = upload.NewS3Store(client, cfg.Upload.Bucket, cfg.Upload.Prefix, cfg.Upload.MaxSize)
		default:
			store, err := upload.NewDiskStore(cfg.Upload.Dir, cfg.Upload.MaxSize)
			if err != nil {
				return nil, err
			}
			sc.Uploads.Store = store
		}
	}
	return sc, nil
}

// withDefaults returns a copy with zero values replaced by defaults.
func (c *ServerConfig) withDefaults() *ServerConfig {
	d := DefaultServerConfig()
	if c == nil {
		return d
	}
	clone := *c
	if clone.Address == "" {
		clone.Address = d.Address
	}
	if clone.ReadTimeout <= 0 {
		clone.ReadTimeout = d.ReadTimeout
	}
	if clone.WriteTimeout <= 0 {
		clone.WriteTimeout = d.WriteTimeout
	}
	if clone.HeartbeatInterval <= 0 {
		clone.HeartbeatInterval = d.HeartbeatInterval
	}
	if clone.ShutdownTimeout <= 0 {
		clone.ShutdownTimeout = d.ShutdownTimeout
	}
	if clone.MaxEventQueue <= 0 {
		clone.MaxEventQueue = d.MaxEventQueue
	}
	if clone.MaxMessageSize <= 0 {
		clone.MaxMessageSize = d.MaxMessageSize
	}
	if clone.ReadBufferSize <= 0 {
		clone.ReadBufferSize = d.ReadBufferSize
	}
	if clone.WriteBufferSize <= 0 {
		clone.WriteBufferSize = d.WriteBufferSize
	}
	if clone.Title == "" {
		clone.Title = d.Title
	}
	if clone.Uploads.MaxSize <= 0 {
		clone.Uploads.MaxSize = d.Uploads.MaxSize
	}
	if clone.Uploads.MaxAge <= 0 {
		clone.Uploads.MaxAge = d.Uploads.MaxAge
	}
	if clone.Metrics.Path == "" {
		clone.Metrics.Path = d.Metrics.Path
	}
	if clone.Metrics.Namespace == "" {
		clone.Metrics.Namespace = d.Metrics.Namespace
	}
	if clone.Tracing.TracerName == "" {
		clone.Tracing.TracerName = d.Tracing.TracerName
	}
	if clone.CheckOrigin == nil {
		clone.CheckOrigin = OriginChecker(clone.AllowedOrigins)
	}
	if clone.Logger == nil {
		clone.Logger = slog.Default()
	}
	return &clone
}

// SameOriginCheck validates that the WebSocket request origin matches the host.
func SameOriginCheck(r *http.Request) bool {
	return OriginChecker(nil)(r)
}

// OriginChecker accepts requests without an Origin header, requests whose
// origin host equals the request host, and origins listed in allowed.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		originURL, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if r.Host != "" && originURL.Host == r.Host {
			return true
		}
		for _, a := range allowed {
			if strings.EqualFold(a, originURL.Host) || a == "*" {
				return true
			}
		}
		return false
	}
}
