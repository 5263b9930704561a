// Package orders provides the orders bounded context module: pricing,
// call-to-order persistence and the kitchen status pipeline.
package orders

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"orderline_backend/internal/events"
	apphttp "orderline_backend/internal/http"
	"orderline_backend/internal/orders/handler"
	"orderline_backend/internal/orders/repository"
	"orderline_backend/internal/orders/service"
	"orderline_backend/platform/logger"
	"orderline_backend/platform/validator"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the orders module. The catalog and
// settings readers are adapters over the menu and restaurants contexts.
func NewModule(pool *pgxpool.Pool, catalog service.CatalogReader, settings service.SettingsReader, bus events.Bus, tasks service.TaskEnqueuer, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog, settings, bus, tasks, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts order routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/orders", m.handler.ListOrders)
	ctx.Protected.GET("/orders/:id", m.handler.GetOrder)
	ctx.Protected.PUT("/orders/:id/status", m.handler.UpdateStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
