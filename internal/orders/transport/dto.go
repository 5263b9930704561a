// Package transport defines the orders API types.
package transport

import "github.com/google/uuid"

// Order statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// OrderItemModifier is one selected modifier on a persisted order item.
type OrderItemModifier struct {
	Group  string  `json:"group"`
	Option string  `json:"option"`
	Price  float64 `json:"price"`
}

// OrderItemResponse is one line of an order in API responses.
type OrderItemResponse struct {
	ID                  uuid.UUID           `json:"id"`
	MenuItemID          *uuid.UUID          `json:"menuItemId,omitempty"`
	Name                string              `json:"name"`
	Quantity            int                 `json:"quantity"`
	UnitPrice           float64             `json:"unitPrice"`
	ItemTotal           float64             `json:"itemTotal"`
	Modifiers           []OrderItemModifier `json:"modifiers"`
	SpecialInstructions *string             `json:"specialInstructions,omitempty"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	Status          string              `json:"status"`
	OrderType       string              `json:"orderType"`
	CustomerName    *string             `json:"customerName,omitempty"`
	CustomerPhone   *string             `json:"customerPhone,omitempty"`
	DeliveryAddress *string             `json:"deliveryAddress,omitempty"`
	Subtotal        float64             `json:"subtotal"`
	Tax             float64             `json:"tax"`
	DeliveryFee     float64             `json:"deliveryFee"`
	Total           float64             `json:"total"`
	Items           []OrderItemResponse `json:"items"`
	CallID          *uuid.UUID          `json:"callId,omitempty"`
	CreatedAt       string              `json:"createdAt"`
}

// UpdateOrderStatusRequest moves an order through the kitchen pipeline.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready completed cancelled"`
}
