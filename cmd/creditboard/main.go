package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	cbhttp "github.com/creditdesk/creditboard/internal/adapter/http"
	"github.com/creditdesk/creditboard/internal/adapter/otel"
	"github.com/creditdesk/creditboard/internal/adapter/postgres"
	"github.com/creditdesk/creditboard/internal/adapter/ristretto"
	"github.com/creditdesk/creditboard/internal/config"
	"github.com/creditdesk/creditboard/internal/logger"
	"github.com/creditdesk/creditboard/internal/middleware"
	"github.com/creditdesk/creditboard/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := otel.Init(cfg.Logging.Service)
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	boardCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer boardCache.Close()

	// --- Services ---

	store := postgres.NewStore(pool)
	taskSvc := service.NewTaskService(store, boardCache, metrics, cfg.Board.ArchiveAfter)
	reminderSvc := service.NewReminderService(store, cfg.Board.ReminderCap)
	ledgerSvc := service.NewLedgerService(store, store, metrics, cfg.Ledger.PollInterval)
	targetSvc := service.NewTargetService(store)

	if err := ledgerSvc.Load(ctx); err != nil {
		return fmt.Errorf("ledger load: %w", err)
	}
	go ledgerSvc.Run(ctx)

	// --- HTTP ---

	handlers := &cbhttp.Handlers{
		Tasks:     taskSvc,
		Reminders: reminderSvc,
		Ledger:    ledgerSvc,
		Targets:   targetSvc,
		BodyLimit: cfg.Server.BodyLimitBytes,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(cbhttp.Logger)
	r.Use(cbhttp.SecurityHeaders)
	r.Use(cbhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	cbhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
