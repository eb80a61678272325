// Package app wires configuration, storage, services and HTTP servers into
// one runnable process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/config"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/database"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/notifications"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/metrics"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/postgres"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/version"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const poolStatsInterval = 15 * time.Second

// App owns the process-wide resources and their lifecycle.
type App struct {
	config     *config.Config
	logger     *slog.Logger
	db         *pgxpool.Pool
	api        *http.Server
	metricsSrv *http.Server
	worker     *notifications.Worker

	// stopBackground ends the pool stats loop and the notification workers'
	// context once shutdown has drained them.
	stopBackground context.CancelFunc
}

// New connects to the database, applies migrations when enabled and builds
// both HTTP servers. Nothing listens until Run.
func New(cfg *config.Config) (*App, error) {
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(cfg.Database.URL); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("database schema is up to date")
	}

	bg, stop := context.WithCancel(context.Background())
	a := &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		stopBackground: stop,
	}

	handler, err := a.routes(bg)
	if err != nil {
		stop()
		db.Close()
		return nil, fmt.Errorf("build routes: %w", err)
	}

	srv := cfg.Server
	a.api = &http.Server{
		Addr:              srv.Host + ":" + srv.Port,
		Handler:           handler,
		ReadTimeout:       srv.ReadTimeout,
		ReadHeaderTimeout: srv.ReadHeaderTimeout,
		WriteTimeout:      srv.WriteTimeout,
		IdleTimeout:       srv.IdleTimeout,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", promhttp.Handler())
	a.metricsSrv = &http.Server{
		Addr:              srv.Host + ":" + srv.MetricsPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go a.recordPoolStats(bg)

	return a, nil
}

func connect(cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.URL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnectAttempts: cfg.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// Run serves the API until Shutdown is called. A failing metrics listener is
// logged and does not stop the API.
func (a *App) Run() error {
	go func() {
		a.logger.Info("metrics listening", "addr", a.metricsSrv.Addr)
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()

	a.logger.Info("api listening", "addr", a.api.Addr, "version", version.Version)
	if err := a.api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve api: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, then drains queued notifications and
// finally releases the database pool. ctx bounds the whole sequence.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	var g errgroup.Group
	g.Go(func() error {
		if err := a.api.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	})
	errs := []error{g.Wait()}

	if a.worker != nil {
		if err := a.worker.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain notifications: %w", err))
		}
	}

	a.stopBackground()
	a.db.Close()

	return errors.Join(errs...)
}

// Router exposes the API handler for in-process tests.
func (a *App) Router() http.Handler {
	return a.api.Handler
}

// NotificationWorker is nil when notifications are disabled.
func (a *App) NotificationWorker() *notifications.Worker {
	return a.worker
}

func (a *App) recordPoolStats(ctx context.Context) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()

	for {
		metrics.RecordDBPoolMetrics(a.db)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
