package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/billminder/internal/bootstrap"
	"github.com/mmynk/billminder/internal/clock"
	"github.com/mmynk/billminder/internal/config"
	"github.com/mmynk/billminder/internal/jobs"
	"github.com/mmynk/billminder/internal/server"
	"github.com/mmynk/billminder/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", ""), "path to YAML config file")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Setup structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, clock.Real{})
	if err != nil {
		return err
	}
	defer app.Close()

	if cfg.Reminders.Enabled {
		scheduler, err := startReminders(app)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	srv := server.New(server.Deps{
		Bills:           app.Bills,
		Payments:        app.Payments,
		Resolver:        app.Resolver,
		Metrics:         app.Metrics,
		PrincipalHeader: cfg.Auth.PrincipalHeader,
	})

	// Wrap with h2c for HTTP/2 without TLS
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(srv.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting",
			"address", httpServer.Addr,
			"storage", cfg.Storage.Driver,
			"utc_offset_hours", cfg.Billing.UTCOffsetHours,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func startReminders(app *bootstrap.App) (*jobs.Scheduler, error) {
	notifier, err := bootstrap.Notifier(app.Config)
	if err != nil {
		return nil, err
	}

	job := jobs.NewReminderJob(app.Store, app.Bills, notifier, app.Clock, app.Location, app.Metrics)
	scheduler := jobs.NewScheduler(app.Location)
	if err := scheduler.Register("SendReminders", app.Config.Reminders.Schedule, job.RunWithRecovery); err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}
