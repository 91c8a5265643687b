package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	api "github.com/sansadwatch/billflow/interfaces/api"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and the transition catalog",
		Long: `Validate a billflow configuration file and the built-in transition
catalog.

This command checks:
  - File format (YAML or JSON)
  - Required fields (name, version)
  - Storage, webhook, and tracing settings
  - Environment variable references (in strict mode)
  - Transition catalog structure (reachable targets, guarded roles,
    terminal implementation-monitoring state)

Examples:
  # Validate the catalog only
  billflow validate

  # Validate a configuration file
  billflow validate -c config.yaml

  # Strict validation (fail on missing env vars)
  billflow validate -c config.yaml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validate(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Enable strict validation (fail on missing env vars)")

	return cmd
}

// validate validates the catalog and, when given, the configuration file.
func (a *App) validate(opts *validateOptions) error {
	catalog := api.DefaultCatalog()
	transitions := 0
	for _, st := range catalog.Statuses() {
		def, _ := catalog.Definition(st)
		transitions += len(def.Transitions)
	}
	fmt.Fprintf(a.stdout, "✓ Transition catalog is valid\n")
	fmt.Fprintf(a.stdout, "  States: %d\n", catalog.Len())
	fmt.Fprintf(a.stdout, "  Transitions: %d\n", transitions)

	if opts.configPath == "" {
		return nil
	}

	loaderOpts := []api.ConfigLoaderOption{
		api.ConfigWithValidation(true),
	}
	if opts.strict {
		loaderOpts = append(loaderOpts, api.ConfigWithStrictEnv(true))
	}

	loader := api.NewConfigLoaderWithOptions(loaderOpts...)
	cfg, err := loader.LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "\n✓ Configuration is valid\n")
	fmt.Fprintf(a.stdout, "  Name: %s\n", cfg.Name)
	fmt.Fprintf(a.stdout, "  Version: %s\n", cfg.Version)
	if cfg.Description != "" {
		fmt.Fprintf(a.stdout, "  Description: %s\n", cfg.Description)
	}

	fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
	driver := cfg.Storage.Driver
	if driver == "" {
		driver = api.DriverMemory
	}
	fmt.Fprintf(a.stdout, "  Storage driver: %s\n", driver)
	fmt.Fprintf(a.stdout, "  Log level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(a.stdout, "  Deadline sweep interval: %s\n", cfg.Deadlines.CheckInterval.Duration())
	fmt.Fprintf(a.stdout, "  Deadline horizon: %d days\n", cfg.Deadlines.HorizonDays)

	if len(cfg.Webhooks.Endpoints) > 0 {
		fmt.Fprintf(a.stdout, "  Webhook endpoints: %d\n", len(cfg.Webhooks.Endpoints))
		for _, ep := range cfg.Webhooks.Endpoints {
			fmt.Fprintf(a.stdout, "    - %s\n", ep.URL)
		}
	}

	if cfg.Tracing.Enabled {
		fmt.Fprintf(a.stdout, "  Tracing: enabled (exporter=%s)\n", cfg.Tracing.Exporter)
	}

	return nil
}
