// Package bootstrap wires configuration into the stores, services and
// collaborators shared by the server and the CLI.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/billminder/internal/auth"
	"github.com/mmynk/billminder/internal/calculator"
	"github.com/mmynk/billminder/internal/clock"
	"github.com/mmynk/billminder/internal/config"
	"github.com/mmynk/billminder/internal/metrics"
	"github.com/mmynk/billminder/internal/notify"
	"github.com/mmynk/billminder/internal/service"
	"github.com/mmynk/billminder/internal/storage"
	"github.com/mmynk/billminder/internal/storage/memory"
	"github.com/mmynk/billminder/internal/storage/mongostore"
	"github.com/mmynk/billminder/internal/storage/sqlstore"
)

// App holds the wired components.
type App struct {
	Config   *config.Config
	Store    storage.Store
	Clock    clock.Clock
	Location *time.Location
	Metrics  *metrics.Collector
	Tokens   *auth.TokenManager
	Resolver auth.OwnerResolver
	Bills    *service.BillService
	Payments *service.PaymentService
}

// New opens the configured store and builds the services on top of it.
func New(ctx context.Context, cfg *config.Config, clk clock.Clock) (*App, error) {
	store, err := OpenStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	opts := StatusOptions(cfg.Billing)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	return &App{
		Config:   cfg,
		Store:    store,
		Clock:    clk,
		Location: opts.Location,
		Metrics:  m,
		Tokens:   tokens,
		Resolver: Resolver(cfg.Auth, tokens),
		Bills:    service.NewBillService(store, clk, opts, m),
		Payments: service.NewPaymentService(store, clk, opts.Location, m),
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// OpenStore opens the backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlstore.New(sqlstore.DialectSQLite, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.Driver, "database", cfg.Path)
		return store, nil
	case config.DriverPostgres:
		store, err := sqlstore.New(sqlstore.DialectPostgres, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.Driver)
		return store, nil
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		store, err := mongostore.New(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to open mongo store: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.Driver, "database", cfg.MongoDatabase)
		return store, nil
	case config.DriverMemory:
		slog.Warn("Using in-memory storage; data is lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
	}
}

// StatusOptions converts billing settings into engine options.
func StatusOptions(cfg config.BillingConfig) calculator.Options {
	return calculator.Options{
		Location:      calculator.ReferenceZone(cfg.UTCOffsetHours),
		LookaheadDays: cfg.LookaheadDays,
	}
}

// Resolver builds the owner resolver chain: the principal header first, then
// bearer tokens when a secret is configured.
func Resolver(cfg config.AuthConfig, tokens *auth.TokenManager) auth.OwnerResolver {
	resolvers := []auth.OwnerResolver{auth.NewPrincipalResolver(cfg.PrincipalHeader)}
	if bearer := auth.NewBearerResolver(tokens); bearer.Enabled() {
		resolvers = append(resolvers, bearer)
	}
	return auth.NewChainResolver(resolvers...)
}

// Notifier builds the reminder notifier selected by cfg.
func Notifier(cfg *config.Config) (notify.Notifier, error) {
	switch cfg.Reminders.Notifier {
	case config.NotifierTelegram:
		return notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
	case config.NotifierLog, "":
		return notify.LogNotifier{}, nil
	default:
		return nil, fmt.Errorf("unknown reminder notifier: %q", cfg.Reminders.Notifier)
	}
}
