package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/mirror/internal/config"
	"github.com/vango-dev/mirror/pkg/live"
	"github.com/vango-dev/mirror/pkg/vtest"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--short"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != version {
		t.Fatalf("version --short = %q, want %q", got, version)
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.yaml")
	yaml := "server:\n  port: 9001\nlog:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := serveCmd()
	if err := cmd.ParseFlags([]string{"--config", path, "--log-format", "json", "--host", "0.0.0.0"}); err != nil {
		t.Fatal(err)
	}
	f := serveFlags{configPath: path, logFormat: "json", host: "0.0.0.0"}
	cfg, err := loadConfig(f, cmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Server.Port != 9001 || cfg.Log.Level != "warn" {
		t.Errorf("file values lost: port %d, level %q", cfg.Server.Port, cfg.Log.Level)
	}
	if cfg.Log.Format != "json" || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("flags not applied: format %q, host %q", cfg.Log.Format, cfg.Server.Host)
	}
}

func TestLoadConfigRejectsInvalidFlag(t *testing.T) {
	cmd := serveCmd()
	if err := cmd.ParseFlags([]string{"--log-level", "loud", "--config", "/nonexistent/mirror.yaml"}); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(serveFlags{configPath: "/nonexistent/mirror.yaml"}, cmd); err == nil {
		t.Fatal("loadConfig() with a missing file succeeded")
	}
	if _, err := loadConfig(serveFlags{logLevel: "loud"}, cmd); err == nil {
		t.Fatal("loadConfig() with an invalid level succeeded")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"k":"v"`) {
		t.Fatalf("log output = %q", buf.String())
	}
	if _, err := newLogger(config.LogConfig{Level: "info", Format: "xml"}, &buf); err == nil {
		t.Fatal("newLogger() accepted format xml")
	}
}

func findByText(root *live.Elem, tag, text string) *live.Elem {
	var found *live.Elem
	root.Walk(func(e *live.Elem) {
		if found == nil && e.Tag() == tag && e.Text() == text {
			found = e
		}
	})
	return found
}

func TestDemoCounter(t *testing.T) {
	s, rec := vtest.NewSession(t, live.WithRouter(demoPages()))
	vtest.Deliver(t, s, "load", map[string]any{"url": "/"})

	root := s.Root()
	if root == nil {
		t.Fatal("load built no root")
	}
	if len(rec.Events("title")) != 1 {
		t.Errorf("title messages = %d, want 1", len(rec.Events("title")))
	}
	plus := findByText(root, "button", "+")
	if plus == nil {
		t.Fatal("no + button")
	}
	rec.Reset()

	vtest.Click(t, s, plus)
	vtest.Click(t, s, plus)
	updates := rec.Events("update")
	if len(updates) != 2 {
		t.Fatalf("updates = %v, want 2", updates)
	}
	if text, _ := updates[1].GetString("text"); text != "2" {
		t.Fatalf("last update text = %q, want 2", text)
	}
}

func TestDemoNavigation(t *testing.T) {
	s, rec := vtest.NewSession(t, live.WithRouter(demoPages()))
	vtest.Deliver(t, s, "load", map[string]any{"url": "/"})
	link := findByText(s.Root(), "a", "/users/1")
	if link == nil {
		t.Fatal("no /users/1 link")
	}
	rec.Reset()

	vtest.Click(t, s, link)
	if len(rec.Events("history")) != 1 {
		t.Fatalf("history messages = %d, want 1", len(rec.Events("history")))
	}
	if findByText(s.Root(), "h1", "User 1") == nil {
		t.Fatal("user page not mounted after navigation")
	}
	if s.Location().Path() != "/users/1" {
		t.Fatalf("Path() = %q", s.Location().Path())
	}
}

func TestDemoUpload(t *testing.T) {
	s, rec := vtest.NewSession(t, live.WithRouter(demoPages()))
	vtest.Deliver(t, s, "load", map[string]any{"url": "/upload"})

	var gate string
	s.Root().Walk(func(e *live.Elem) {
		if e.Tag() == "form" {
			v, _ := e.Attr("action")
			gate, _ = v.(string)
		}
	})
	if !rec.Upload(gate, live.UploadedFile{Name: "a.txt", Size: 3}) {
		t.Fatalf("no upload endpoint at %q", gate)
	}
	s.Wait()
	if findByText(s.Root(), "li", "a.txt (3 bytes)") == nil {
		t.Fatal("uploaded file not listed")
	}
}
