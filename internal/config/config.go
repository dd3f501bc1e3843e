package config

import (
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/mirror/internal/errors"
)

const (
	// ConfigFileName is the conventional name of the configuration file.
	ConfigFileName = "mirror.yaml"

	// DefaultHost is the default listen host.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the default listen port.
	DefaultPort = 8080

	// DefaultUploadDir is where uploaded files are stored by the disk backend.
	DefaultUploadDir = "./__mirror_tmp__"

	// DefaultMaxUploadSize is the default per-request upload limit.
	DefaultMaxUploadSize = 10 << 20

	// Upload backends.
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// Config is the complete mirror.yaml configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Upload  UploadConfig  `yaml:"upload"`
	Static  StaticConfig  `yaml:"static"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
	Log     LogConfig     `yaml:"log"`

	// path stores where the config was loaded from.
	path string
}

// ServerConfig contains HTTP and WebSocket settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`

	// MaxEventQueue is the per-connection inbound event buffer.
	MaxEventQueue int `yaml:"max_event_queue"`

	// AllowedOrigins restricts WebSocket origins. Empty allows same-origin
	// requests only.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// UploadConfig contains upload endpoint settings.
type UploadConfig struct {
	Enabled bool   `yaml:"enabled"`
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	MaxSize int64  `yaml:"max_size"`
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`

	// Region and Endpoint configure the s3 backend. A non-empty endpoint
	// selects an S3-compatible service.
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// StaticConfig contains static file settings.
type StaticConfig struct {
	// Dir is served at /static/ when set.
	Dir string `yaml:"dir"`

	// Stylesheets are linked into every page.
	Stylesheets []string `yaml:"stylesheets"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TracerName string `yaml:"tracer_name"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// New returns a configuration with every default applied.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              DefaultHost,
			Port:              DefaultPort,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      10 * time.Second,
			HeartbeatInterval: 30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			MaxEventQueue:     256,
		},
		Upload: UploadConfig{
			Enabled: true,
			Backend: BackendDisk,
			Dir:     DefaultUploadDir,
			MaxSize: DefaultMaxUploadSize,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "mirror",
		},
		Tracing: TracingConfig{
			Enabled:    true,
			TracerName: "mirror",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFile reads configuration from path, overlaying it on the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").WithDetail("No " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes YAML, overlays it on the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse YAML: " + err.Error())
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// applyDefaults fills fields the file set to zero values.
func (c *Config) applyDefaults() {
	d := New()
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.HeartbeatInterval == 0 {
		c.Server.HeartbeatInterval = d.Server.HeartbeatInterval
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Server.MaxEventQueue == 0 {
		c.Server.MaxEventQueue = d.Server.MaxEventQueue
	}
	if c.Upload.Backend == "" {
		c.Upload.Backend = d.Upload.Backend
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = d.Upload.Dir
	}
	if c.Upload.MaxSize == 0 {
		c.Upload.MaxSize = d.Upload.MaxSize
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate checks for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("server.port must be between 0 and 65535")
	}
	if c.Server.MaxEventQueue < 0 {
		return errors.New("E122").
			WithDetail("server.max_event_queue must not be negative")
	}
	switch c.Upload.Backend {
	case BackendDisk:
	case BackendS3:
		if c.Upload.Enabled && c.Upload.Bucket == "" {
			return errors.New("E122").
				WithDetail("upload.bucket is required with the s3 backend")
		}
	default:
		return errors.New("E122").
			WithDetailf("unknown upload.backend %q", c.Upload.Backend).
			WithSuggestion("Use \"disk\" or \"s3\"")
	}
	if c.Upload.MaxSize < 0 {
		return errors.New("E122").
			WithDetail("upload.max_size must not be negative")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E122").
			WithDetailf("metrics.path %q must start with /", c.Metrics.Path)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E122").
			WithDetailf("unknown log.format %q", c.Log.Format).
			WithSuggestion("Use \"text\" or \"json\"")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, errors.New("E122").
			WithDetailf("unknown log.level %q", l.Level).
			WithSuggestion("Use debug, info, warn or error")
	}
	return level, nil
}
