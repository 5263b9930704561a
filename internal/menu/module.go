// Package menu provides the menu bounded context module: catalog management
// and website menu import.
package menu

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "orderline_backend/internal/http"
	"orderline_backend/internal/menu/handler"
	"orderline_backend/internal/menu/repository"
	"orderline_backend/internal/menu/service"
	"orderline_backend/platform/config"
	"orderline_backend/platform/logger"
	"orderline_backend/platform/validator"
)

// Module is the menu bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the menu module.
func NewModule(pool *pgxpool.Pool, cfg config.ScraperConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, service.NewScraper(cfg), log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "menu"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts menu routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/menu", m.handler.GetMenu)
	ctx.Protected.POST("/menu/items", m.handler.CreateItem)
	ctx.Protected.PUT("/menu/items/:id", m.handler.UpdateItem)
	ctx.Protected.DELETE("/menu/items/:id", m.handler.DeleteItem)
	ctx.Protected.POST("/menu/scrape", ctx.ScrapeRateLimiter.RateLimit(), m.handler.ScrapeMenu)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
