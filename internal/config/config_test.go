package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
api:
  base_url: "https://api.swimtrack.example"
  timeout: 10s
cache:
  path: "/var/lib/swimtrack/cache.db"
log:
  level: debug
drafts:
  ttl: 30m
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("server addr = %q, want %q", cfg.Server.Addr(), "0.0.0.0:8080")
	}
	if cfg.API.BaseURL != "https://api.swimtrack.example" {
		t.Errorf("api.base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("api.timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Cache.Path != "/var/lib/swimtrack/cache.db" {
		t.Errorf("cache.path = %q", cfg.Cache.Path)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.Log.SlogLevel())
	}
	if cfg.Drafts.TTL != 30*time.Minute {
		t.Errorf("drafts.ttl = %v, want 30m", cfg.Drafts.TTL)
	}
}

// TestDefaultsFillGaps verifies omitted sections keep their defaults.
func TestDefaultsFillGaps(t *testing.T) {
	cfg, err := Load(writeTemp(t, "server:\n  port: 9000\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("api.timeout = %v, want default 30s", cfg.API.Timeout)
	}
	if cfg.Drafts.TTL != 2*time.Hour {
		t.Errorf("drafts.ttl = %v, want default 2h", cfg.Drafts.TTL)
	}
	if cfg.Cache.MaxAge != 30*24*time.Hour {
		t.Errorf("cache.max_age = %v, want default 720h", cfg.Cache.MaxAge)
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale should be off by default")
	}
}

// TestEnvOverride verifies that SWIMTRACK_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("SWIMTRACK_SERVER_PORT", "9999")
	t.Setenv("SWIMTRACK_API_URL", "http://localhost:4000")
	t.Setenv("SWIMTRACK_CACHE_PATH", "")
	t.Setenv("SWIMTRACK_TAILSCALE_ENABLED", "true")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.API.BaseURL != "http://localhost:4000" {
		t.Errorf("api.base_url = %q", cfg.API.BaseURL)
	}
	if cfg.Cache.Path != "" {
		t.Errorf("cache.path = %q, want disabled", cfg.Cache.Path)
	}
	if !cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled not overridden")
	}
	// Unchanged fields should keep YAML values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
}

// TestDotEnv verifies a .env next to the config file feeds the overrides
// without replacing variables that are already set.
func TestDotEnv(t *testing.T) {
	path := writeTemp(t, validYAML)
	env := "SWIMTRACK_LOG_LEVEL=error\nSWIMTRACK_SERVER_PORT=7000\n"
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte(env), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SWIMTRACK_SERVER_PORT", "7100")
	os.Unsetenv("SWIMTRACK_LOG_LEVEL")
	t.Cleanup(func() { os.Unsetenv("SWIMTRACK_LOG_LEVEL") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log.level = %q, want error from .env", cfg.Log.Level)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("server.port = %d, want 7100 from the environment", cfg.Server.Port)
	}
}

// TestValidation verifies that bad values produce an error.
func TestValidation(t *testing.T) {
	cases := map[string]string{
		"port out of range": "server:\n  port: 70000\n",
		"relative api url":  "api:\n  base_url: \"/api\"\n",
		"bad log level":     "log:\n  level: loud\n",
		"tailscale no host": "tailscale:\n  enabled: true\n  hostname: \"\"\n",
		"zero timeout":      "api:\n  timeout: 0s\n",
		"negative log size": "log:\n  max_size_mb: -1\n",
		"negative max age":  "cache:\n  max_age: -1h\n",
	}
	for name, y := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, y)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

// TestLogOutput verifies stdout is kept unless a log file is configured.
func TestLogOutput(t *testing.T) {
	var buf bytes.Buffer
	if got := (LogConfig{}).Output(&buf); got != &buf {
		t.Errorf("Output without file = %T, want fallback", got)
	}

	path := filepath.Join(t.TempDir(), "swimtrack.log")
	out := LogConfig{File: path, MaxSizeMB: 1}.Output(&buf)
	lj, ok := out.(*lumberjack.Logger)
	if !ok {
		t.Fatalf("Output with file = %T, want *lumberjack.Logger", out)
	}
	t.Cleanup(func() { lj.Close() })
	if _, err := io.WriteString(out, "level=INFO msg=hello\n"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "level=INFO msg=hello\n" {
		t.Errorf("log file = %q", data)
	}
}

// TestFromEnv verifies the file-less path used by the CLI.
func TestFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SWIMTRACK_API_URL", "http://api.local:3000")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "http://api.local:3000" {
		t.Errorf("api.base_url = %q", cfg.API.BaseURL)
	}
}

// TestLoadMissingFile verifies that a missing config file returns a clear error.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
