// Command worker runs the background task processor: staff order
// notifications and any future queued work.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"orderline_backend/internal/adapters"
	"orderline_backend/internal/events"
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

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	val := validator.New()
	bus := events.NewInMemoryBus(log)

	restaurantsModule := restaurants.NewModule(pool, val)
	menuModule := menu.NewModule(pool, cfg, log, val)
	ordersModule := orders.NewModule(pool,
		adapters.NewCatalogReader(menuModule.Service()),
		adapters.NewSettingsReader(restaurantsModule.Service()),
		bus, nil, log, val)

	notifier := notification.New(ordersModule.Service(), restaurantsModule.Service(), cfg, log)

	worker, err := scheduler.NewWorker(cfg, log)
	if err != nil {
		return fmt.Errorf("scheduler worker: %w", err)
	}
	worker.HandleFunc(scheduler.TypeOrderNotify, notifier.HandleOrderNotifyTask)

	errCh := make(chan error, 1)
	go func() {
		log.Info("worker started", "queue", cfg.GetAsynqQueueName())
		if err := worker.Run(); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("worker: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	worker.Shutdown()
	return nil
}
