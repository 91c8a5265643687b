package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates billflow configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(cfg *Config) ValidationErrors {
	v.errors = nil

	v.validateRequired(cfg)
	v.validateStorage(cfg)
	v.validateLogging(cfg)
	v.validateWebhooks(cfg)
	v.validateDeadlines(cfg)
	v.validateTracing(cfg)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateRequired(cfg *Config) {
	if cfg.Name == "" {
		v.addError("name", "name is required")
	}
	if cfg.Version == "" {
		v.addError("version", "version is required")
	}
}

func (v *Validator) validateStorage(cfg *Config) {
	switch cfg.Storage.Driver {
	case "", DriverMemory:
	case DriverSQLite:
		if cfg.Storage.SQLite.DSN == "" {
			v.addError("storage.sqlite.dsn", "dsn is required for the sqlite driver")
		}
	case DriverPostgres:
		if cfg.Storage.Postgres.Host == "" {
			v.addError("storage.postgres.host", "host is required for the postgres driver")
		}
		if cfg.Storage.Postgres.Database == "" {
			v.addError("storage.postgres.database", "database is required for the postgres driver")
		}
	default:
		v.addError("storage.driver",
			fmt.Sprintf("unknown driver %q (expected memory, sqlite, or postgres)", cfg.Storage.Driver))
	}
}

func (v *Validator) validateLogging(cfg *Config) {
	switch cfg.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error", "fatal":
	default:
		v.addError("logging.level", fmt.Sprintf("unknown level %q", cfg.Logging.Level))
	}

	switch cfg.Logging.Format {
	case "", "json", "console":
	default:
		v.addError("logging.format", fmt.Sprintf("unknown format %q (expected json or console)", cfg.Logging.Format))
	}
}

func (v *Validator) validateWebhooks(cfg *Config) {
	for i, ep := range cfg.Webhooks.Endpoints {
		path := fmt.Sprintf("webhooks.endpoints[%d]", i)
		if ep.URL == "" {
			v.addError(path+".url", "url is required")
			continue
		}
		u, err := url.Parse(ep.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			v.addError(path+".url", fmt.Sprintf("invalid url %q", ep.URL))
		}
	}

	if cfg.Webhooks.MaxRetries < 0 {
		v.addError("webhooks.max_retries", "max_retries must not be negative")
	}
	if cfg.Webhooks.Timeout < 0 {
		v.addError("webhooks.timeout", "timeout must not be negative")
	}
}

func (v *Validator) validateDeadlines(cfg *Config) {
	if cfg.Deadlines.CheckInterval < 0 {
		v.addError("deadlines.check_interval", "check_interval must not be negative")
	}
	if cfg.Deadlines.HorizonDays < 0 {
		v.addError("deadlines.horizon_days", "horizon_days must not be negative")
	}
}

func (v *Validator) validateTracing(cfg *Config) {
	if !cfg.Tracing.Enabled {
		return
	}
	switch cfg.Tracing.Exporter {
	case "", "stdout":
	case "otlp":
		if cfg.Tracing.Endpoint == "" {
			v.addError("tracing.endpoint", "endpoint is required for the otlp exporter")
		}
	default:
		v.addError("tracing.exporter", fmt.Sprintf("unknown exporter %q (expected stdout or otlp)", cfg.Tracing.Exporter))
	}
}
