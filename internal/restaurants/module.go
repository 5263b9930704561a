// Package restaurants provides the restaurant settings bounded context module.
package restaurants

import (
	"orderline_backend/internal/restaurants/handler"
	"orderline_backend/internal/restaurants/repository"
	"orderline_backend/internal/restaurants/service"
	apphttp "orderline_backend/internal/http"
	"orderline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the restaurants bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the restaurants module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "restaurants"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts restaurant routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/restaurant", m.handler.GetSettings)
	ctx.Protected.PUT("/restaurant", m.handler.UpdateSettings)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
