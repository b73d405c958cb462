// Package config loads application settings from environment variables,
// applying defaults and validating everything on startup so the process
// fails fast on misconfiguration.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Upload   UploadConfig
	Session  SessionConfig
	Describe DescribeConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// RequestTimeout is the per-request middleware timeout (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// StoreConfig holds relational store settings.
type StoreConfig struct {
	// Driver selects the backend: sqlite or postgres (default: sqlite)
	Driver string `env:"STORE_DRIVER" default:"sqlite"`

	// DSN is the connection string. For sqlite this is the database file
	// path (default: dataprep.db). Required for postgres; STORE_DSN and
	// DATABASE_URL are both accepted.
	DSN string `env:"STORE_DSN" envAlt:"DATABASE_URL" default:"dataprep.db"`
}

// UploadConfig holds dataset upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed upload size in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`
}

// SessionConfig holds session lifecycle settings.
type SessionConfig struct {
	// TTL is how long an idle session survives; 0 disables expiry
	// (default: 1h)
	TTL time.Duration `env:"SESSION_TTL" default:"1h"`

	// SweepInterval is how often expired sessions are collected (default: 5m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"5m"`
}

// DescribeConfig holds language-model analysis settings.
type DescribeConfig struct {
	// APIKey authorizes the OpenAI API; empty disables descriptions
	APIKey string `env:"OPENAI_API_KEY"`

	// Model is the chat model used for column descriptions (default: gpt-4o-mini)
	Model string `env:"DESCRIBE_MODEL" default:"gpt-4o-mini"`

	// MaxTokens is the per-column completion budget (default: 50)
	MaxTokens int64 `env:"DESCRIBE_MAX_TOKENS" default:"50"`

	// Timeout bounds each remote call (default: 30s)
	Timeout time.Duration `env:"DESCRIBE_TIMEOUT" default:"30s"`

	// SampleSize caps rows sampled for column statistics (default: 1000)
	SampleSize int `env:"DESCRIBE_SAMPLE_SIZE" default:"1000"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Validate checks that the configuration is usable. All problems are
// reported at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	switch strings.ToLower(c.Store.Driver) {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Sprintf("STORE_DRIVER (%q) must be sqlite or postgres", c.Store.Driver))
	}
	if c.Store.DSN == "" {
		errs = append(errs, "STORE_DSN is required")
	}

	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_FILE_SIZE must be positive")
	}

	if c.Session.TTL < 0 {
		errs = append(errs, "SESSION_TTL must be non-negative")
	}
	if c.Session.TTL > 0 && c.Session.SweepInterval <= 0 {
		errs = append(errs, "SESSION_SWEEP_INTERVAL must be positive when SESSION_TTL is set")
	}

	if c.Describe.MaxTokens <= 0 {
		errs = append(errs, "DESCRIBE_MAX_TOKENS must be positive")
	}
	if c.Describe.SampleSize <= 0 {
		errs = append(errs, "DESCRIBE_SAMPLE_SIZE must be positive")
	}
	if c.Describe.Timeout <= 0 {
		errs = append(errs, "DESCRIBE_TIMEOUT must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be text or json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String returns a loggable view of the config with secrets masked.
func (c *Config) String() string {
	apiKey := "[unset]"
	if c.Describe.APIKey != "" {
		apiKey = "[MASKED]"
	}
	return fmt.Sprintf(
		"Config{Server: {Addr: %q}, Store: {Driver: %q, DSN: [MASKED]}, Upload: {MaxFileSize: %d}, Session: {TTL: %s}, Describe: {APIKey: %s, Model: %q}, Logging: {Level: %q, Format: %q}}",
		c.Server.Addr(), c.Store.Driver, c.Upload.MaxFileSize, c.Session.TTL,
		apiKey, c.Describe.Model, c.Logging.Level, c.Logging.Format,
	)
}
