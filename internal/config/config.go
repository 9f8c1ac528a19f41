package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	Cache     CacheConfig     `yaml:"cache"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
	Drafts    DraftsConfig    `yaml:"drafts"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig points at the Remote Data Service.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig locates the local SQLite cache. An empty path disables it.
// Rows not refreshed within MaxAge are pruned at startup; 0 keeps them.
type CacheConfig struct {
	Path   string        `yaml:"path"`
	MaxAge time.Duration `yaml:"max_age"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// LogConfig sets the log level. With File set, logs go to that file and
// rotate at MaxSizeMB instead of going to stdout.
type LogConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// Output returns the rotating log file when File is set, otherwise fallback.
func (l LogConfig) Output(fallback io.Writer) io.Writer {
	if l.File == "" {
		return fallback
	}
	return &lumberjack.Logger{
		Filename: l.File,
		MaxSize:  l.MaxSizeMB,
		Compress: true,
	}
}

// SlogLevel maps the configured level name, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

type DraftsConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
		API:    APIConfig{BaseURL: "http://localhost:3000", Timeout: 30 * time.Second},
		Tailscale: TailscaleConfig{
			Hostname: "swimtrack",
		},
		Cache:  CacheConfig{MaxAge: 30 * 24 * time.Hour},
		Log:    LogConfig{Level: "info", MaxSizeMB: 50},
		Drafts: DraftsConfig{TTL: 2 * time.Hour},
	}
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A .env file next to the config file is
// loaded first; variables already set in the environment win over it.
// Env vars use the prefix SWIMTRACK_:
//
//	SWIMTRACK_SERVER_HOST, SWIMTRACK_SERVER_PORT,
//	SWIMTRACK_API_URL, SWIMTRACK_API_TIMEOUT,
//	SWIMTRACK_CACHE_PATH,
//	SWIMTRACK_TAILSCALE_ENABLED, SWIMTRACK_TAILSCALE_HOSTNAME, SWIMTRACK_TAILSCALE_STATE_DIR,
//	SWIMTRACK_LOG_LEVEL, SWIMTRACK_LOG_FILE, SWIMTRACK_DRAFTS_TTL
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	return finish(cfg)
}

// FromEnv builds a config from the defaults, ./.env and SWIMTRACK_ variables.
func FromEnv() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return finish(Default())
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SWIMTRACK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SWIMTRACK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SWIMTRACK_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("SWIMTRACK_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}
	if v, ok := os.LookupEnv("SWIMTRACK_CACHE_PATH"); ok {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("SWIMTRACK_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("SWIMTRACK_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("SWIMTRACK_TAILSCALE_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("SWIMTRACK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SWIMTRACK_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("SWIMTRACK_DRAFTS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Drafts.TTL = d
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if c.Cache.MaxAge < 0 {
		return fmt.Errorf("cache.max_age must not be negative")
	}
	if c.Log.MaxSizeMB < 0 {
		return fmt.Errorf("log.max_size_mb must not be negative")
	}
	if c.Drafts.TTL < 0 {
		return fmt.Errorf("drafts.ttl must not be negative")
	}
	return nil
}
