package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/mirror/internal/config"
	"github.com/vango-dev/mirror/pkg/server"
)

type serveFlags struct {
	configPath string
	host       string
	port       int
	logLevel   string
	logFormat  string
	staticDir  string
}

func serveCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo application",
		Long: `Serve the bundled demo pages over HTTP and WebSocket.

Settings are read from mirror.yaml in the working directory, or from the
file given with --config. Flags override the file.

Examples:
  mirror serve
  mirror serve --port=9000 --log-level=debug
  mirror serve --config=deploy/mirror.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f, cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			sc, err := server.FromConfig(cfg)
			if err != nil {
				return err
			}
			sc.Logger = logger
			if path := cfg.Path(); path != "" {
				logger.Info("config loaded", "path", path)
			}
			return server.New(sc, demoPages()).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to the config file (default ./"+config.ConfigFileName+")")
	cmd.Flags().StringVarP(&f.host, "host", "H", "", "Host to bind to")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "Port to listen on")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "", "Log format: text or json")
	cmd.Flags().StringVar(&f.staticDir, "static", "", "Directory served at /static/")

	return cmd
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(f serveFlags, cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case f.configPath != "":
		cfg, err = config.LoadFile(f.configPath)
	case fileExists(config.ConfigFileName):
		cfg, err = config.LoadFile(config.ConfigFileName)
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = f.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = f.port
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if flags.Changed("static") {
		cfg.Static.Dir = f.staticDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the log settings.
func newLogger(lc config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch lc.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, errors.New("unknown log format " + lc.Format)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
