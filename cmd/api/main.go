// Command api runs the HTTP server: staff dashboard API, voice vendor
// webhooks and the live tool-call side channel.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"orderline_backend/internal/adapters"
	"orderline_backend/internal/calls"
	"orderline_backend/internal/events"
	apphttp "orderline_backend/internal/http"
	"orderline_backend/internal/http/router"
	"orderline_backend/internal/menu"
	"orderline_backend/internal/notification"
	"orderline_backend/internal/orders"
	"orderline_backend/internal/restaurants"
	"orderline_backend/internal/scheduler"
	"orderline_backend/platform/config"
	"orderline_backend/platform/db"
	"orderline_backend/platform/logger"
	"orderline_backend/platform/validator"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(ctx, cfg, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	pool, err := withRetry(ctx, log, "database", func() (*pgxpool.Pool, error) {
		return db.NewPool(ctx, cfg)
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	redisOpt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}

	tasks, err := scheduler.NewClient(cfg, log)
	if err != nil {
		return fmt.Errorf("scheduler client: %w", err)
	}
	defer tasks.Close()

	val := validator.New()
	bus := events.NewInMemoryBus(log)

	restaurantsModule := restaurants.NewModule(pool, val)
	menuModule := menu.NewModule(pool, cfg, log, val)

	ordersModule := orders.NewModule(pool,
		adapters.NewCatalogReader(menuModule.Service()),
		adapters.NewSettingsReader(restaurantsModule.Service()),
		bus, tasks, log, val)

	callsModule := calls.NewModule(pool, redisClient,
		adapters.NewAgentNumberResolver(restaurantsModule.Service()), cfg, log)
	callsModule.Service().SetOrderCreator(ordersModule.Service())

	notifier := notification.New(ordersModule.Service(), restaurantsModule.Service(), cfg, log)
	notifier.Subscribe(bus)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: bus,
		Modules: []apphttp.Module{
			restaurantsModule,
			menuModule,
			ordersModule,
			callsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.GetHTTPAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// withRetry retries startup dependencies a few times; container schedulers
// often start the app before its backing services accept connections.
func withRetry[T any](ctx context.Context, log *logger.Logger, name string, connect func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		value, err := connect()
		if err == nil {
			return value, nil
		}
		lastErr = err
		log.Warn("startup dependency not ready", "dependency", name, "attempt", attempt, "error", err.Error())
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return zero, lastErr
}
