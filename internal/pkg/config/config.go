// Package config assembles the typed application configuration from the
// environment and validates it before the server starts.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/driversheet/driversheet-web/internal/pkg/env"
)

const (
	DefaultBackendURL   = "http://localhost:8080"
	DefaultSupportEmail = "founders@driversheet.com"
)

type Config struct {
	AppHost      string `env:"APP_HOST" validate:"required"`
	AppPort      string `env:"APP_PORT" validate:"required,numeric"`
	AppEnv       string `env:"APP_ENV" validate:"oneof=dev prod test"`
	PublicDomain string `env:"PUBLIC_DOMAIN" validate:"omitempty,url"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID" validate:"required"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET" validate:"required"`

	BackendURL     string        `env:"API_BASE_URL" validate:"required,url"`
	BackendToken   string        `env:"BACKEND_API_TOKEN"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" validate:"gt=0"`

	SessionSecret  string        `env:"SESSION_SECRET"`
	SessionStorage string        `env:"SESSION_STORAGE" validate:"oneof=redis memory"`
	SessionTTL     time.Duration `env:"SESSION_TTL" validate:"gt=0"`
	SyncRetryAfter time.Duration `env:"SYNC_RETRY_AFTER" validate:"gte=0"`

	CacheHost     string `env:"CACHE_HOST" validate:"required_if=SessionStorage redis"`
	CachePort     string `env:"CACHE_PORT" validate:"required_if=SessionStorage redis"`
	CachePassword string `env:"CACHE_PASSWORD"`

	MetricsUser     string `env:"METRICS_USER"`
	MetricsPassword string `env:"METRICS_PASSWORD"`

	SupportEmail string `env:"SUPPORT_EMAIL" validate:"required,email"`
}

// ConfigError reports configuration that prevents the process from starting.
type ConfigError struct {
	Fields []string
	Err    error
}

func (e *ConfigError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration (%s): %v", strings.Join(e.Fields, ", "), e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report env variable names instead of struct fields
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Load reads the configuration through env.GetEnv. Missing OAuth
// credentials or malformed values yield a *ConfigError.
func Load() (*Config, error) {
	cfg := &Config{
		AppHost:            env.GetEnv("APP_HOST", "localhost"),
		AppPort:            env.GetEnv("APP_PORT", "4000"),
		AppEnv:             env.GetEnv("APP_ENV", "prod"),
		PublicDomain:       strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/"),
		GoogleClientID:     strings.TrimSpace(env.GetEnv("GOOGLE_CLIENT_ID", "")),
		GoogleClientSecret: strings.TrimSpace(env.GetEnv("GOOGLE_CLIENT_SECRET", "")),
		BackendURL:         strings.TrimRight(env.GetEnv("API_BASE_URL", DefaultBackendURL), "/"),
		BackendToken:       strings.TrimSpace(env.GetEnv("BACKEND_API_TOKEN", "")),
		SessionSecret:      env.GetEnv("SESSION_SECRET", ""),
		SessionStorage:     strings.ToLower(env.GetEnv("SESSION_STORAGE", "redis")),
		CacheHost:          env.GetEnv("CACHE_HOST", "localhost"),
		CachePort:          env.GetEnv("CACHE_PORT", "6379"),
		CachePassword:      env.GetEnv("CACHE_PASSWORD", ""),
		MetricsUser:        env.GetEnv("METRICS_USER", ""),
		MetricsPassword:    env.GetEnv("METRICS_PASSWORD", ""),
		SupportEmail:       env.GetEnv("SUPPORT_EMAIL", DefaultSupportEmail),
	}

	var bad []string
	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"BACKEND_TIMEOUT", "15s", &cfg.BackendTimeout},
		{"SESSION_TTL", "72h", &cfg.SessionTTL},
		{"SYNC_RETRY_AFTER", "1m", &cfg.SyncRetryAfter},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(env.GetEnv(d.key, d.def))
		if err != nil {
			bad = append(bad, d.key)
			continue
		}
		*d.dst = parsed
	}
	if len(bad) > 0 {
		return nil, &ConfigError{Fields: bad, Err: errors.New("invalid duration")}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints and wraps failures in a *ConfigError.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return &ConfigError{Fields: fields, Err: errors.New("missing or invalid values")}
	}
	return &ConfigError{Err: err}
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// BaseURL is the externally reachable origin used for OAuth callbacks.
func (c *Config) BaseURL() string {
	if c.PublicDomain != "" {
		return c.PublicDomain
	}
	return "http://localhost:" + c.AppPort
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

func (c *Config) CacheAddr() string {
	return fmt.Sprintf("%s:%s", c.CacheHost, c.CachePort)
}
