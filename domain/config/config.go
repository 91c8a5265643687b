// Package config provides domain models for billflow configuration.
package config

import "time"

// Config represents the complete billflow configuration.
type Config struct {
	// Name is a human-readable name for this deployment.
	Name string `json:"name" yaml:"name"`
	// Version is the configuration schema version.
	Version string `json:"version" yaml:"version"`
	// Description describes the deployment.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Storage contains persistence settings.
	Storage StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty"`
	// Logging contains logging settings.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	// Webhooks contains webhook notification settings.
	Webhooks WebhooksConfig `json:"webhooks,omitempty" yaml:"webhooks,omitempty"`
	// Deadlines contains deadline sweep settings.
	Deadlines DeadlinesConfig `json:"deadlines,omitempty" yaml:"deadlines,omitempty"`
	// Tracing contains trace exporter settings.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// StorageDriver identifies a persistence backend.
type StorageDriver string

// Supported storage drivers.
const (
	DriverMemory   StorageDriver = "memory"
	DriverSQLite   StorageDriver = "sqlite"
	DriverPostgres StorageDriver = "postgres"
)

// StorageConfig contains persistence settings.
type StorageConfig struct {
	// Driver selects the backend: memory, sqlite, or postgres.
	Driver StorageDriver `json:"driver,omitempty" yaml:"driver,omitempty"`
	// SQLite contains SQLite-specific settings.
	SQLite SQLiteConfig `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
	// Postgres contains PostgreSQL-specific settings.
	Postgres PostgresConfig `json:"postgres,omitempty" yaml:"postgres,omitempty"`
}

// SQLiteConfig contains SQLite settings.
type SQLiteConfig struct {
	// DSN is the data source name.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// PostgresConfig contains PostgreSQL settings.
type PostgresConfig struct {
	Host     string `json:"host,omitempty" yaml:"host,omitempty"`
	Port     int    `json:"port,omitempty" yaml:"port,omitempty"`
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	SSLMode  string `json:"ssl_mode,omitempty" yaml:"ssl_mode,omitempty"`
	Schema   string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is the output format (json or console).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// WebhooksConfig contains webhook notification settings.
type WebhooksConfig struct {
	// Endpoints lists the webhook delivery targets.
	Endpoints []WebhookEndpointConfig `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
	// Timeout is the per-delivery HTTP timeout.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// MaxRetries is the number of delivery attempts per endpoint.
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
}

// WebhookEndpointConfig configures one webhook delivery target.
type WebhookEndpointConfig struct {
	// URL is the delivery address.
	URL string `json:"url" yaml:"url"`
	// Secret signs outgoing payloads when set.
	Secret string `json:"secret,omitempty" yaml:"secret,omitempty"`
	// EventTypes restricts delivery to the listed types (empty = all).
	EventTypes []string `json:"event_types,omitempty" yaml:"event_types,omitempty"`
	// BillIDs restricts delivery to the listed bills (empty = all).
	BillIDs []string `json:"bill_ids,omitempty" yaml:"bill_ids,omitempty"`
}

// DeadlinesConfig contains deadline sweep settings.
type DeadlinesConfig struct {
	// CheckInterval is how often pending deadlines are swept.
	CheckInterval Duration `json:"check_interval,omitempty" yaml:"check_interval,omitempty"`
	// HorizonDays bounds how far ahead the sweep looks.
	HorizonDays int `json:"horizon_days,omitempty" yaml:"horizon_days,omitempty"`
}

// TracingConfig contains trace exporter settings.
type TracingConfig struct {
	// Enabled turns span export on.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Exporter selects the exporter: stdout or otlp.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP collector address.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Name:    "billflow",
		Version: "1",
		Storage: StorageConfig{
			Driver: DriverMemory,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Webhooks: WebhooksConfig{
			Timeout:    Duration(30 * time.Second),
			MaxRetries: 3,
		},
		Deadlines: DeadlinesConfig{
			CheckInterval: Duration(time.Hour),
			HorizonDays:   90,
		},
	}
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
