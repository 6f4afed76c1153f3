package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foxzi/eventmail/internal/api"
	"github.com/foxzi/eventmail/internal/composer"
	"github.com/foxzi/eventmail/internal/config"
	"github.com/foxzi/eventmail/internal/content"
	"github.com/foxzi/eventmail/internal/event"
	"github.com/foxzi/eventmail/internal/metrics"
	"github.com/foxzi/eventmail/internal/template"
)

// App is the main application
type App struct {
	config        *config.Config
	composer      *composer.Composer
	apiServer     *api.Server
	metricsServer *metrics.Server
	logger        *slog.Logger
}

// New creates a new application
func New(cfg *config.Config) (*App, error) {
	logger := setupLogger(cfg.Logging)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		metrics.SetGlobal(m)
	}

	c, err := NewComposer(cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		config:    cfg,
		composer:  c,
		apiServer: api.NewServer(c, &cfg.API, logger.With("component", "api")),
		logger:    logger,
	}

	if m != nil {
		app.metricsServer = metrics.NewServer(
			m,
			cfg.Metrics.ListenAddr,
			cfg.Metrics.Path,
			cfg.Metrics.AllowedIPs,
			logger.With("component", "metrics"),
		)
	}

	return app, nil
}

// NewComposer builds the generation pipeline from configuration and seeds
// the event store
func NewComposer(cfg *config.Config, logger *slog.Logger) (*composer.Composer, error) {
	var storeOpts []event.Option
	if cfg.Events.UniqueSlugs {
		storeOpts = append(storeOpts, event.WithUniqueSlugs())
	}

	var genOpts []content.GeneratorOption
	if cfg.Content.StrictValidation {
		genOpts = append(genOpts, content.WithRules(content.ExtendedRules...))
	}

	c := composer.New(
		event.NewStore(storeOpts...),
		content.NewGenerator(cfg.Content.BaseURL, genOpts...),
		template.NewRenderer(),
		logger.With("component", "composer"),
	)

	for i, d := range cfg.Events.Seed {
		if _, err := c.AddEvent(d); err != nil {
			return nil, fmt.Errorf("failed to seed event %d: %w", i, err)
		}
	}
	if n := len(cfg.Events.Seed); n > 0 {
		logger.Info("seeded events", "count", n)
	}

	return c, nil
}

// Run starts all components and waits for shutdown
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting eventmail",
		"api", a.config.API.ListenAddr,
		"base_url", a.config.Content.BaseURL,
		"strict_validation", a.config.Content.StrictValidation,
	)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 2)

	go func() {
		if err := a.apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("API server error: %w", err)
		}
	}()

	if a.metricsServer != nil {
		go func() {
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.logger.Error("server error", "error", err)
		a.Shutdown(context.Background())
		return err
	}

	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down all components
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var errs []error
	if err := a.apiServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("API server: %w", err))
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server: %w", err))
		}
	}

	if len(errs) > 0 {
		a.logger.Error("shutdown completed with errors", "errors", errs)
		return errors.Join(errs...)
	}

	a.logger.Info("shutdown complete")
	return nil
}

// setupLogger creates a logger based on configuration
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
