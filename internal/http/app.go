// Package http assembles the HTTP-facing modules into one application.
package http

import (
	"context"

	"orderline_backend/internal/events"
	"orderline_backend/platform/config"
	"orderline_backend/platform/logger"
)

// RouterConfig is the slice of configuration the router needs.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs the readiness endpoint, typically a database ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App carries the initialized dependencies from the composition root into
// the router.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus events.Bus
	// Modules are the domain modules that register routes.
	Modules []Module
}
