package notification

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	orderstransport "orderline_backend/internal/orders/transport"
)

func strPtr(s string) *string { return &s }

func TestOrderEmailBodyIncludesItemsAndTotals(t *testing.T) {
	order := orderstransport.OrderResponse{
		ID:              uuid.New(),
		OrderType:       "delivery",
		CustomerName:    strPtr("Sam"),
		CustomerPhone:   strPtr("+15551234567"),
		DeliveryAddress: strPtr("1 Main St"),
		Subtotal:        20.00,
		Tax:             1.60,
		DeliveryFee:     3.00,
		Total:           24.60,
		Items: []orderstransport.OrderItemResponse{
			{
				Name: "Cheese Pizza", Quantity: 2, UnitPrice: 10.00, ItemTotal: 20.00,
				Modifiers: []orderstransport.OrderItemModifier{
					{Group: "Crust", Option: "Thin", Price: 0},
				},
			},
		},
	}

	body := orderEmailBody("Mario's", order)
	for _, want := range []string{
		"Mario's",
		"2 x Cheese Pizza — $20.00",
		"Crust: Thin",
		"Subtotal: $20.00",
		"Tax: $1.60",
		"Delivery fee: $3.00",
		"Total: $24.60",
		"Customer: Sam (+15551234567)",
		"Deliver to: 1 Main St",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("email body missing %q:\n%s", want, body)
		}
	}
}

func TestOrderEmailBodyOmitsZeroDeliveryFee(t *testing.T) {
	order := orderstransport.OrderResponse{OrderType: "pickup", Subtotal: 10, Tax: 0.8, Total: 10.8}
	body := orderEmailBody("Mario's", order)
	if strings.Contains(body, "Delivery fee") {
		t.Errorf("pickup order should not mention a delivery fee:\n%s", body)
	}
}
