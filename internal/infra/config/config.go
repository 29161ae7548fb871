// Package config provides application-wide configuration loaded from env vars.
// A .env file in the working directory is read first when present.
// All fields have safe defaults so the binary runs locally without any env setup.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration for coffee-api.
type Config struct {
	// Backend
	OllamaURL          string        `env:"OLLAMA_URL"           envDefault:"http://localhost:11434"`
	OllamaModel        string        `env:"OLLAMA_MODEL"         envDefault:"llama3.2:3b"`
	OllamaStatusPath   string        `env:"OLLAMA_STATUS_PATH"   envDefault:"/api/tags"`
	OllamaGeneratePath string        `env:"OLLAMA_GENERATE_PATH" envDefault:"/api/generate"`
	ProbeTimeout       time.Duration `env:"PROBE_TIMEOUT"        envDefault:"5s"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"      envDefault:"120s"`
	RetryDelay         time.Duration `env:"RETRY_DELAY"          envDefault:"1s"`
	MaxRetries         int           `env:"MAX_RETRIES"          envDefault:"2"`
	Temperature        float64       `env:"TEMPERATURE"          envDefault:"0.5"`

	// HTTP
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"5000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"auto"`

	// Optional components; empty disables them.
	AuditDBPath         string `env:"AUDIT_DB_PATH"`
	HealthProbeSchedule string `env:"HEALTH_PROBE_SCHEDULE"`

	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"development"`
}

// Error reports an invalid configuration value.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

// Load reads .env (if any) and then environment variables, applying defaults for missing values.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.OllamaURL == "":
		return &Error{Field: "OLLAMA_URL", Message: "must not be empty"}
	case c.OllamaModel == "":
		return &Error{Field: "OLLAMA_MODEL", Message: "must not be empty"}
	case c.MaxRetries < 1:
		return &Error{Field: "MAX_RETRIES", Message: "must be at least 1"}
	case c.ProbeTimeout <= 0:
		return &Error{Field: "PROBE_TIMEOUT", Message: "must be positive"}
	case c.RequestTimeout <= 0:
		return &Error{Field: "REQUEST_TIMEOUT", Message: "must be positive"}
	case c.RetryDelay < 0:
		return &Error{Field: "RETRY_DELAY", Message: "must not be negative"}
	case c.Port < 0 || c.Port > 65535:
		return &Error{Field: "PORT", Message: "must be a valid TCP port"}
	}
	switch c.LogFormat {
	case "auto", "text", "json":
	default:
		return &Error{Field: "LOG_FORMAT", Message: "must be auto, text or json"}
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
