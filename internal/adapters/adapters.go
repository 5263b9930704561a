// Package adapters bridges bounded contexts without direct coupling: each
// adapter satisfies a consumer-side interface using another module's service.
package adapters

import (
	"context"

	"github.com/google/uuid"

	callsservice "orderline_backend/internal/calls/service"
	menuservice "orderline_backend/internal/menu/service"
	ordersservice "orderline_backend/internal/orders/service"
	restaurantservice "orderline_backend/internal/restaurants/service"
)

// CatalogReader adapts the menu service to the orders context's catalog
// interface.
type CatalogReader struct {
	menu *menuservice.Service
}

// NewCatalogReader creates a catalog reader over the menu service.
func NewCatalogReader(menu *menuservice.Service) *CatalogReader {
	return &CatalogReader{menu: menu}
}

// ListCatalogItems returns the restaurant's available items for matching.
func (a *CatalogReader) ListCatalogItems(ctx context.Context, restaurantID uuid.UUID) ([]ordersservice.CatalogItem, error) {
	items, err := a.menu.ListCatalogItems(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	out := make([]ordersservice.CatalogItem, 0, len(items))
	for _, item := range items {
		out = append(out, ordersservice.CatalogItem{
			ID:        item.ID,
			Name:      item.Name,
			BasePrice: item.BasePrice,
		})
	}
	return out, nil
}

var _ ordersservice.CatalogReader = (*CatalogReader)(nil)

// SettingsReader adapts the restaurants service to the orders context's
// pricing settings interface.
type SettingsReader struct {
	restaurants *restaurantservice.Service
}

// NewSettingsReader creates a settings reader over the restaurants service.
func NewSettingsReader(restaurants *restaurantservice.Service) *SettingsReader {
	return &SettingsReader{restaurants: restaurants}
}

// GetOrderSettings returns the restaurant's tax rate and delivery fee.
func (a *SettingsReader) GetOrderSettings(ctx context.Context, restaurantID uuid.UUID) (ordersservice.OrderSettings, error) {
	restaurant, err := a.restaurants.Get(ctx, restaurantID)
	if err != nil {
		return ordersservice.OrderSettings{}, err
	}
	return ordersservice.OrderSettings{
		TaxRate:     restaurant.TaxRate,
		DeliveryFee: restaurant.DeliveryFee,
	}, nil
}

var _ ordersservice.SettingsReader = (*SettingsReader)(nil)

// AgentNumberResolver adapts the restaurants service to the calls context's
// dialed-number resolution interface.
type AgentNumberResolver struct {
	restaurants *restaurantservice.Service
}

// NewAgentNumberResolver creates a resolver over the restaurants service.
func NewAgentNumberResolver(restaurants *restaurantservice.Service) *AgentNumberResolver {
	return &AgentNumberResolver{restaurants: restaurants}
}

// ResolveByAgentNumber returns the restaurant assigned to a dialed agent
// number.
func (a *AgentNumberResolver) ResolveByAgentNumber(ctx context.Context, dialedNumber string) (uuid.UUID, error) {
	restaurant, err := a.restaurants.GetByAgentNumber(ctx, dialedNumber)
	if err != nil {
		return uuid.Nil, err
	}
	return restaurant.ID, nil
}

var _ callsservice.RestaurantResolver = (*AgentNumberResolver)(nil)
