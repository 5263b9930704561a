// Package service contains the orders business logic: catalog resolution,
// pricing and the atomic call-to-order pipeline.
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	callstransport "orderline_backend/internal/calls/transport"
	"orderline_backend/internal/events"
	"orderline_backend/internal/orders/repository"
	"orderline_backend/internal/orders/transport"
	"orderline_backend/platform/apperr"
	"orderline_backend/platform/logger"
	"orderline_backend/platform/phone"
)

// OrderCreatedEventName identifies the event published after an order is
// persisted.
const OrderCreatedEventName = "orders.created"

// OrderCreatedEvent is published on the in-process bus once the order write
// commits.
type OrderCreatedEvent struct {
	events.BaseEvent
	OrderID      uuid.UUID
	RestaurantID uuid.UUID
	OrderType    string
	CustomerName string
	Total        float64
}

// EventName returns the event identifier.
func (e OrderCreatedEvent) EventName() string { return OrderCreatedEventName }

// OrderStore is the persistence surface the service needs. Satisfied by the
// orders repository.
type OrderStore interface {
	CreateForCall(ctx context.Context, params repository.CreateForCallParams) (repository.Order, error)
	GetByID(ctx context.Context, restaurantID, orderID uuid.UUID) (repository.Order, []repository.OrderItem, error)
	List(ctx context.Context, restaurantID uuid.UUID, status string, limit, offset int) ([]repository.Order, error)
	UpdateStatus(ctx context.Context, restaurantID, orderID uuid.UUID, status string) (repository.Order, error)
}

var _ OrderStore = (*repository.Repo)(nil)

// CatalogReader supplies the restaurant's current catalog. Fetched fresh per
// reconciliation; the staleness window is one webhook delivery.
type CatalogReader interface {
	ListCatalogItems(ctx context.Context, restaurantID uuid.UUID) ([]CatalogItem, error)
}

// OrderSettings are the pricing knobs read from the restaurant.
type OrderSettings struct {
	TaxRate     float64
	DeliveryFee float64
}

// SettingsReader supplies restaurant pricing settings.
type SettingsReader interface {
	GetOrderSettings(ctx context.Context, restaurantID uuid.UUID) (OrderSettings, error)
}

// TaskEnqueuer schedules background work after an order exists.
type TaskEnqueuer interface {
	EnqueueOrderNotification(ctx context.Context, orderID, restaurantID uuid.UUID) error
}

// Service exposes order operations.
type Service struct {
	store    OrderStore
	catalog  CatalogReader
	settings SettingsReader
	bus      events.Bus
	tasks    TaskEnqueuer
	logger   *logger.Logger
}

// New creates a new orders service.
func New(store OrderStore, catalog CatalogReader, settings SettingsReader, bus events.Bus, tasks TaskEnqueuer, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		catalog:  catalog,
		settings: settings,
		bus:      bus,
		tasks:    tasks,
		logger:   log,
	}
}

// CreateFromCall prices a reduced draft order against the live catalog and
// persists it atomically. Implements the calls context's OrderCreator.
func (s *Service) CreateFromCall(ctx context.Context, req callstransport.CreateOrderFromCall) (callstransport.CreatedOrderRef, error) {
	settings, err := s.settings.GetOrderSettings(ctx, req.RestaurantID)
	if err != nil {
		return callstransport.CreatedOrderRef{}, err
	}
	catalog, err := s.catalog.ListCatalogItems(ctx, req.RestaurantID)
	if err != nil {
		return callstransport.CreatedOrderRef{}, err
	}

	items := make([]repository.ItemParams, 0, len(req.Draft.Items))
	subtotal := 0.0
	for _, draftItem := range req.Draft.Items {
		item := resolveItem(draftItem, catalog)
		subtotal += item.ItemTotal
		items = append(items, item)
	}

	subtotal = roundCents(subtotal)
	tax := roundCents(subtotal * settings.TaxRate)
	deliveryFee := 0.0
	if req.Draft.OrderType == "delivery" {
		deliveryFee = settings.DeliveryFee
	}
	total := roundCents(subtotal + tax + deliveryFee)

	customerPhone := req.Draft.CustomerPhone
	if customerPhone == "" {
		customerPhone = req.CallerNumber
	}
	if customerPhone != "" {
		customerPhone = phone.NormalizeE164(customerPhone)
	}

	order, err := s.store.CreateForCall(ctx, repository.CreateForCallParams{
		RestaurantID:    req.RestaurantID,
		CallID:          req.CallID,
		OrderType:       req.Draft.OrderType,
		CustomerName:    req.Draft.CustomerName,
		CustomerPhone:   customerPhone,
		DeliveryAddress: req.Draft.DeliveryAddress,
		Subtotal:        subtotal,
		Tax:             tax,
		DeliveryFee:     deliveryFee,
		Total:           total,
		Items:           items,
	})
	if err != nil {
		// A conflict means a concurrent delivery already linked an order;
		// the caller treats it as a duplicate, not a failure.
		return callstransport.CreatedOrderRef{}, err
	}

	s.bus.Publish(ctx, OrderCreatedEvent{
		BaseEvent:    events.NewBaseEvent(),
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		OrderType:    order.OrderType,
		CustomerName: req.Draft.CustomerName,
		Total:        order.Total,
	})
	if s.tasks != nil {
		if err := s.tasks.EnqueueOrderNotification(ctx, order.ID, order.RestaurantID); err != nil {
			// Notification is best effort; the order itself is committed.
			s.logger.Warn("enqueue order notification", "order_id", order.ID.String(), "error", err.Error())
		}
	}

	return callstransport.CreatedOrderRef{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total,
	}, nil
}

// resolveItem matches one draft line against the catalog and prices it.
// Unresolved names persist at price zero with the raw spoken name so orders
// are never silently dropped.
func resolveItem(draftItem callstransport.DraftOrderItem, catalog []CatalogItem) repository.ItemParams {
	item := repository.ItemParams{
		Name:                draftItem.Name,
		Quantity:            draftItem.Quantity,
		Modifiers:           make([]transport.OrderItemModifier, 0, len(draftItem.Modifiers)),
		SpecialInstructions: draftItem.SpecialInstructions,
	}

	unitPrice := 0.0
	if match := MatchCatalogItem(draftItem.Name, catalog); match != nil {
		item.MenuItemID = &match.ID
		item.Name = match.Name
		unitPrice = match.BasePrice
	}

	modifierSurcharge := 0.0
	for _, modifier := range draftItem.Modifiers {
		modifierSurcharge += modifier.Price
		item.Modifiers = append(item.Modifiers, transport.OrderItemModifier{
			Group:  modifier.Group,
			Option: modifier.Option,
			Price:  modifier.Price,
		})
	}

	item.UnitPrice = unitPrice
	item.ItemTotal = (unitPrice + modifierSurcharge) * float64(draftItem.Quantity)
	return item
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// validTransitions is the kitchen pipeline state machine. Completed and
// cancelled are terminal.
var validTransitions = map[string][]string{
	transport.StatusPending:   {transport.StatusConfirmed, transport.StatusCancelled},
	transport.StatusConfirmed: {transport.StatusPreparing, transport.StatusCancelled},
	transport.StatusPreparing: {transport.StatusReady, transport.StatusCancelled},
	transport.StatusReady:     {transport.StatusCompleted, transport.StatusCancelled},
}

// UpdateStatus moves an order through the pipeline, rejecting invalid jumps.
func (s *Service) UpdateStatus(ctx context.Context, restaurantID, orderID uuid.UUID, status string) (transport.OrderResponse, error) {
	current, _, err := s.store.GetByID(ctx, restaurantID, orderID)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	allowed := false
	for _, next := range validTransitions[current.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return transport.OrderResponse{}, apperr.Conflict(
			fmt.Sprintf("cannot move order from %s to %s", current.Status, status))
	}

	order, err := s.store.UpdateStatus(ctx, restaurantID, orderID, status)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	return toOrderResponse(order, nil), nil
}

// List returns the restaurant's orders.
func (s *Service) List(ctx context.Context, restaurantID uuid.UUID, status string, limit, offset int) ([]transport.OrderResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.store.List(ctx, restaurantID, status, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]transport.OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order, nil))
	}
	return out, nil
}

// Get returns one order with its items.
func (s *Service) Get(ctx context.Context, restaurantID, orderID uuid.UUID) (transport.OrderResponse, error) {
	order, items, err := s.store.GetByID(ctx, restaurantID, orderID)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	return toOrderResponse(order, items), nil
}

func toOrderResponse(order repository.Order, items []repository.OrderItem) transport.OrderResponse {
	resp := transport.OrderResponse{
		ID:              order.ID,
		Status:          order.Status,
		OrderType:       order.OrderType,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		DeliveryAddress: order.DeliveryAddress,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		DeliveryFee:     order.DeliveryFee,
		Total:           order.Total,
		Items:           make([]transport.OrderItemResponse, 0, len(items)),
		CallID:          order.CallID,
		CreatedAt:       order.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range items {
		modifiers := item.Modifiers
		if modifiers == nil {
			modifiers = []transport.OrderItemModifier{}
		}
		resp.Items = append(resp.Items, transport.OrderItemResponse{
			ID:                  item.ID,
			MenuItemID:          item.MenuItemID,
			Name:                item.Name,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			ItemTotal:           item.ItemTotal,
			Modifiers:           modifiers,
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	return resp
}
