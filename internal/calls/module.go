// Package calls provides the calls bounded context module: vendor webhook
// ingestion, live tool acknowledgements and dashboard call views.
package calls

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"orderline_backend/internal/calls/handler"
	"orderline_backend/internal/calls/repository"
	"orderline_backend/internal/calls/service"
	apphttp "orderline_backend/internal/http"
	"orderline_backend/platform/config"
	"orderline_backend/platform/logger"
)

// Module is the calls bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	webhook config.WebhookConfig
}

// NewModule creates and initializes the calls module. The order creator must
// be attached via Service().SetOrderCreator before traffic arrives.
func NewModule(pool *pgxpool.Pool, redisClient *redis.Client, restaurants service.RestaurantResolver, cfg config.WebhookConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, restaurants, redisClient, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		webhook: cfg,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calls"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts calls routes on the provided router context. The
// webhook and live tool routes authenticate via vendor signature, not JWT.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/webhooks/voice", handler.VerifySignature(m.webhook), m.handler.Webhook)
	ctx.V1.POST("/tools/voice", handler.VerifySignature(m.webhook), m.handler.LiveTool)

	ctx.Protected.GET("/calls", m.handler.ListCalls)
	ctx.Protected.GET("/calls/:id", m.handler.GetCall)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
