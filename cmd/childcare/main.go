// main is the entry point of the childcare registration server.
//
// Startup:
//  1. Load configuration
//  2. Initialise the logger
//  3. Open storage (sqlite or postgres) and wrap it with DB metrics
//  4. Pick the weather store (Redis when configured, memory otherwise)
//  5. Start the weather refresher
//  6. Serve HTTP until SIGINT/SIGTERM, then shut down gracefully
//
// Run:
//
//	go run ./cmd/childcare --config=config/local.yaml
//
// or
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/childcare
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kinderhort/childcare-registration/internal/config"
	"github.com/kinderhort/childcare-registration/internal/http/router"
	"github.com/kinderhort/childcare-registration/internal/metrics"
	"github.com/kinderhort/childcare-registration/internal/storage"
	"github.com/kinderhort/childcare-registration/internal/storage/postgres"
	"github.com/kinderhort/childcare-registration/internal/storage/sqlite"
	"github.com/kinderhort/childcare-registration/internal/validation"
	"github.com/kinderhort/childcare-registration/internal/weather"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting childcare-registration",
		slog.String("env", cfg.Env),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	db, err := openStorage(ctx, cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("storage initialised", slog.String("driver", cfg.StorageDriver))

	store, rdb := weatherStore(ctx, cfg, log)

	refresher := weather.NewRefresher(
		weather.NewClient(cfg.Weather),
		store,
		cfg.Weather.RefreshInterval,
		cfg.Weather.Timeout,
		log.With(slog.String("component", "weather")),
		m,
	)

	refreshCtx, stopRefresh := context.WithCancel(ctx)
	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		refresher.Run(refreshCtx)
	}()

	loc := cfg.Location()
	handler := router.New(router.Deps{
		Config:         cfg,
		Storage:        storage.Observe(db, m),
		Validator:      validation.New(time.Now, loc),
		Weather:        store,
		Metrics:        m,
		MetricsHandler: metrics.Handler(reg),
		Log:            log,
	})

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: handler,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping server...")

	stopRefresh()
	<-refreshDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
	}

	if err := db.Close(); err != nil {
		log.Error("failed to close storage", slog.String("error", err.Error()))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("failed to close redis", slog.String("error", err.Error()))
		}
	}

	log.Info("server stopped gracefully")
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.PostgresDSN)
	default:
		return sqlite.New(cfg.StoragePath)
	}
}

// weatherStore connects to Redis when an address is configured. An
// unreachable Redis is logged and the in-process store is used instead.
func weatherStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (weather.Store, *redis.Client) {
	if cfg.Redis.Addr == "" {
		return weather.NewMemoryStore(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, keeping weather in memory",
			slog.String("addr", cfg.Redis.Addr),
			slog.String("error", err.Error()))
		rdb.Close()
		return weather.NewMemoryStore(), nil
	}

	log.Info("weather panel shared through redis", slog.String("addr", cfg.Redis.Addr))
	return weather.NewRedisStore(rdb, 2*cfg.Weather.RefreshInterval), rdb
}

// setupLogger: text/debug for dev, JSON/debug for staging, JSON/info for prod.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
