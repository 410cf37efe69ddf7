// Package config loads postbrowser settings: built-in defaults, then an
// optional YAML file, then POSTBROWSER_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of the server and the browser.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Client ClientConfig `yaml:"client"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the reference data source.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	DBPath          string        `yaml:"db_path" validate:"required"`
	BackupDir       string        `yaml:"backup_dir" validate:"required"`
	RateLimit       float64       `yaml:"rate_limit" validate:"gte=0"`
	RateBurst       int           `yaml:"rate_burst" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// ClientConfig configures the browser's transport.
type ClientConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
	// RequestTimeout bounds each request. Zero leaves requests unbounded.
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
	RateLimit      float64       `yaml:"rate_limit" validate:"gte=0"`
	RateBurst      int           `yaml:"rate_burst" validate:"gte=0"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	// File receives log output when set. The browse command always needs
	// one so log lines do not corrupt the terminal.
	File string `yaml:"file"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			DBPath:          "./data",
			BackupDir:       "./backups",
			RateLimit:       50,
			RateBurst:       100,
			ShutdownTimeout: 10 * time.Second,
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. path may be empty, and a missing file at
// path is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := decode(bytes.NewReader(data), &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("POSTBROWSER_SERVER_ADDR", c.Server.Addr)
	c.Server.DBPath = getEnv("POSTBROWSER_DB_PATH", c.Server.DBPath)
	c.Server.BackupDir = getEnv("POSTBROWSER_BACKUP_DIR", c.Server.BackupDir)
	c.Client.BaseURL = getEnv("POSTBROWSER_API_URL", c.Client.BaseURL)
	c.Log.Level = getEnv("POSTBROWSER_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("POSTBROWSER_LOG_FORMAT", c.Log.Format)
	c.Log.File = getEnv("POSTBROWSER_LOG_FILE", c.Log.File)

	if v, ok := os.LookupEnv("POSTBROWSER_REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POSTBROWSER_REQUEST_TIMEOUT: %w", err)
		}
		c.Client.RequestTimeout = d
	}
	if v, ok := os.LookupEnv("POSTBROWSER_RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("POSTBROWSER_RATE_LIMIT: %w", err)
		}
		c.Server.RateLimit = f
	}
	return nil
}

// getEnv returns the environment value of key, or fallback when unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// NewLogger builds a slog logger writing to w at the configured level.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.level()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// OpenLogger is NewLogger writing to File, or to fallback when File is
// empty. The returned close function is never nil.
func (l LogConfig) OpenLogger(fallback io.Writer) (*slog.Logger, func() error, error) {
	if l.File == "" {
		return l.NewLogger(fallback), func() error { return nil }, nil
	}
	f, err := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return l.NewLogger(f), f.Close, nil
}

func (l LogConfig) level() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
