package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sansadwatch/billflow/application"
	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/config"
	"github.com/sansadwatch/billflow/domain/deadline"
	"github.com/sansadwatch/billflow/domain/notification"
	"github.com/sansadwatch/billflow/infrastructure/logging"
	webhooks "github.com/sansadwatch/billflow/infrastructure/notification"
	"github.com/sansadwatch/billflow/infrastructure/observability"
	"github.com/sansadwatch/billflow/infrastructure/storage/memory"
	"github.com/sansadwatch/billflow/infrastructure/storage/postgres"
	"github.com/sansadwatch/billflow/infrastructure/storage/sqlite"
)

// Config re-exports the runtime configuration.
type Config = config.Config

// DefaultConfig returns the default runtime configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// Client is the assembled billflow runtime: storage, lifecycle engine,
// webhook dispatch, and observability wired together from a Config.
type Client struct {
	cfg      *config.Config
	bills    bill.Store
	deads    deadline.Store
	service  *application.Service
	stats    *application.Stats
	sweeper  *application.Sweeper
	provider *observability.Provider
	closers  []func(context.Context) error
}

// Open assembles a client from configuration. A nil cfg uses defaults.
func Open(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if errs := config.NewValidator().Validate(cfg); errs.HasErrors() {
		return nil, errs
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	c := &Client{cfg: cfg}

	if err := c.openStorage(ctx); err != nil {
		return nil, err
	}

	notifier, err := buildNotifier(cfg)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	if notifier != nil {
		c.closers = append(c.closers, func(context.Context) error {
			return notifier.Close()
		})
	}

	obsOpts := append(
		observability.FromTracingConfig(cfg.Tracing),
		observability.WithServiceName(cfg.Name),
		observability.WithServiceVersion(cfg.Version),
	)
	provider, err := observability.New(obsOpts...)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.provider = provider
	c.closers = append(c.closers, provider.Shutdown)

	svcCfg := application.ServiceConfig{
		Bills:     c.bills,
		Deadlines: c.deads,
		Metrics:   provider.Metrics(),
		Tracer:    provider.Tracer(),
	}
	if notifier != nil {
		svcCfg.Notifier = notifier
	}
	service, err := application.NewService(svcCfg)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.service = service

	stats, err := application.NewStats(application.StatsConfig{
		Bills:     c.bills,
		Deadlines: c.deads,
	})
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.stats = stats

	sweeper, err := application.NewSweeper(application.SweeperConfig{
		Service:  service,
		Interval: cfg.Deadlines.CheckInterval.Duration(),
	})
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.sweeper = sweeper

	return c, nil
}

// openStorage builds the bill and deadline stores for the configured
// driver.
func (c *Client) openStorage(ctx context.Context) error {
	switch c.cfg.Storage.Driver {
	case config.DriverMemory, "":
		c.bills = memory.NewBillStore()
		c.deads = memory.NewDeadlineStore()
		return nil

	case config.DriverSQLite:
		scfg := sqlite.DefaultConfig()
		scfg.AutoMigrate = true
		if dsn := c.cfg.Storage.SQLite.DSN; dsn != "" {
			scfg.DSN = dsn
		}
		billStore, err := sqlite.NewBillStore(scfg)
		if err != nil {
			return fmt.Errorf("open sqlite bill store: %w", err)
		}
		deadlineStore, err := sqlite.NewDeadlineStoreFromDB(billStore.DB())
		if err != nil {
			_ = billStore.Close()
			return fmt.Errorf("open sqlite deadline store: %w", err)
		}
		c.bills = billStore
		c.deads = deadlineStore
		c.closers = append(c.closers, func(context.Context) error {
			return billStore.Close()
		})
		return nil

	case config.DriverPostgres:
		pcfg := postgres.DefaultConfig()
		pg := c.cfg.Storage.Postgres
		if pg.Host != "" {
			pcfg.Host = pg.Host
		}
		if pg.Port != 0 {
			pcfg.Port = pg.Port
		}
		if pg.Database != "" {
			pcfg.Database = pg.Database
		}
		if pg.User != "" {
			pcfg.User = pg.User
		}
		if pg.Password != "" {
			pcfg.Password = pg.Password
		}
		if pg.SSLMode != "" {
			pcfg.SSLMode = pg.SSLMode
		}
		if pg.Schema != "" {
			pcfg.Schema = pg.Schema
		}
		pool, err := postgres.NewPool(ctx, pcfg)
		if err != nil {
			return fmt.Errorf("open postgres pool: %w", err)
		}
		if err := postgres.Migrate(ctx, pool, pcfg.Schema); err != nil {
			pool.Close()
			return fmt.Errorf("migrate postgres schema: %w", err)
		}
		c.bills = postgres.NewBillStore(pool, pcfg.Schema)
		c.deads = postgres.NewDeadlineStore(pool, pcfg.Schema)
		c.closers = append(c.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		return nil

	default:
		return fmt.Errorf("unknown storage driver %q", c.cfg.Storage.Driver)
	}
}

// buildNotifier assembles the webhook dispatcher from configuration.
// Returns nil when no endpoints are configured.
func buildNotifier(cfg *config.Config) (notification.Notifier, error) {
	if len(cfg.Webhooks.Endpoints) == 0 {
		return nil, nil
	}

	endpoints := make([]*notification.Endpoint, 0, len(cfg.Webhooks.Endpoints))
	for _, ec := range cfg.Webhooks.Endpoints {
		if ec.URL == "" {
			return nil, fmt.Errorf("webhook endpoint: %w", notification.ErrInvalidEndpoint)
		}

		var filters []notification.EventFilter
		if len(ec.EventTypes) > 0 {
			types := make([]notification.EventType, 0, len(ec.EventTypes))
			for _, t := range ec.EventTypes {
				types = append(types, notification.EventType(t))
			}
			filters = append(filters, notification.FilterByType(types...))
		}
		if len(ec.BillIDs) > 0 {
			filters = append(filters, notification.FilterByBillID(ec.BillIDs...))
		}

		ep := &notification.Endpoint{
			URL:     ec.URL,
			Secret:  ec.Secret,
			Enabled: true,
		}
		if len(filters) > 0 {
			ep.Filter = notification.CombineFilters(filters...)
		}
		endpoints = append(endpoints, ep)
	}

	return webhooks.NewDispatcher(webhooks.DispatcherConfig{
		Endpoints: endpoints,
		SenderConfig: webhooks.SenderConfig{
			Timeout:    cfg.Webhooks.Timeout.Duration(),
			MaxRetries: cfg.Webhooks.MaxRetries,
		},
	}), nil
}

// Service returns the bill record service.
func (c *Client) Service() *application.Service {
	return c.service
}

// Stats returns the reporting service.
func (c *Client) Stats() *application.Stats {
	return c.stats
}

// Sweeper returns the deadline sweeper. Run it with its Run method to
// enforce constitutional timers in the background.
func (c *Client) Sweeper() *application.Sweeper {
	return c.sweeper
}

// Engine returns the lifecycle engine backing the service.
func (c *Client) Engine() *Engine {
	return c.service.Engine()
}

// RunSweeper runs the deadline sweep loop until ctx is cancelled.
func (c *Client) RunSweeper(ctx context.Context) error {
	return c.sweeper.Run(ctx)
}

// Close releases all resources held by the client. Shutdown is bounded
// by a short internal timeout when the caller's context has none.
func (c *Client) Close(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
	}

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
