package api

import (
	"github.com/sansadwatch/billflow/domain/config"
	infraconfig "github.com/sansadwatch/billflow/infrastructure/config"
)

// StorageDriver re-exports the persistence backend selector.
type StorageDriver = config.StorageDriver

// Storage drivers.
const (
	DriverMemory   = config.DriverMemory
	DriverSQLite   = config.DriverSQLite
	DriverPostgres = config.DriverPostgres
)

// WebhookEndpointConfig re-exports a configured webhook endpoint.
type WebhookEndpointConfig = config.WebhookEndpointConfig

// ConfigLoader re-exports the configuration loader.
type ConfigLoader = infraconfig.Loader

// ConfigLoaderOption re-exports a loader option.
type ConfigLoaderOption = infraconfig.LoaderOption

// ConfigFormat re-exports the configuration file format.
type ConfigFormat = infraconfig.Format

// Configuration file formats.
const (
	ConfigFormatYAML = infraconfig.FormatYAML
	ConfigFormatJSON = infraconfig.FormatJSON
)

// Configuration errors.
var (
	ErrConfigNotFound    = config.ErrConfigNotFound
	ErrInvalidFormat     = config.ErrInvalidFormat
	ErrUnsupportedFormat = config.ErrUnsupportedFormat
	ErrValidationFailed  = config.ErrValidationFailed
	ErrMissingEnvVar     = config.ErrMissingEnvVar
)

// NewConfigLoader creates a configuration loader with defaults.
func NewConfigLoader() *ConfigLoader {
	return infraconfig.NewLoader()
}

// NewConfigLoaderWithOptions creates a configuration loader with the
// given options.
func NewConfigLoaderWithOptions(opts ...ConfigLoaderOption) *ConfigLoader {
	return infraconfig.NewLoaderWithOptions(opts...)
}

// ConfigWithEnvExpansion toggles ${VAR} expansion in loaded files.
func ConfigWithEnvExpansion(enabled bool) ConfigLoaderOption {
	return infraconfig.WithEnvExpansion(enabled)
}

// ConfigWithStrictEnv makes missing environment variables an error.
func ConfigWithStrictEnv(enabled bool) ConfigLoaderOption {
	return infraconfig.WithStrictEnv(enabled)
}

// ConfigWithValidation toggles validation of loaded configuration.
func ConfigWithValidation(enabled bool) ConfigLoaderOption {
	return infraconfig.WithValidation(enabled)
}
