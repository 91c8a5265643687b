package api

import (
	"errors"
	"testing"
)

const yamlConfig = `
name: billflow
version: 1.0.0
storage:
  driver: memory
logging:
  level: debug
  format: json
deadlines:
  check_interval: 30m
  horizon_days: 45
`

func TestNewConfigLoader(t *testing.T) {
	loader := NewConfigLoader()

	cfg, err := loader.LoadString(yamlConfig, ConfigFormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	if cfg.Name != "billflow" {
		t.Errorf("Name = %q, want %q", cfg.Name, "billflow")
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("Driver = %q, want %q", cfg.Storage.Driver, DriverMemory)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Deadlines.HorizonDays != 45 {
		t.Errorf("HorizonDays = %d, want 45", cfg.Deadlines.HorizonDays)
	}
}

func TestNewConfigLoaderWithOptions(t *testing.T) {
	loader := NewConfigLoaderWithOptions(
		ConfigWithEnvExpansion(false),
		ConfigWithValidation(true),
	)

	invalid := `
name: billflow
version: 1.0.0
storage:
  driver: cassandra
`
	_, err := loader.LoadString(invalid, ConfigFormatYAML)
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("LoadString() error = %v, want ErrValidationFailed", err)
	}
}

func TestConfigLoaderJSON(t *testing.T) {
	loader := NewConfigLoader()

	cfg, err := loader.LoadString(`{"name":"billflow","version":"1.0.0"}`, ConfigFormatJSON)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", cfg.Version, "1.0.0")
	}
}
