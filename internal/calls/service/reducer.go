package service

import (
	"strings"

	"orderline_backend/internal/calls/transport"
)

// Order types a call can produce.
const (
	OrderTypePickup   = "pickup"
	OrderTypeDelivery = "delivery"
)

// Tool names emitted by the voice agent.
const (
	toolAddToOrder         = "add_to_order"
	toolRemoveFromOrder    = "remove_from_order"
	toolSetOrderType       = "set_order_type"
	toolSetDeliveryAddress = "set_delivery_address"
	toolSetCustomerInfo    = "set_customer_info"
)

// ReduceOrder folds a tool event sequence into a draft order, applying events
// in arrival order. Returns nil when no items survive, which callers treat as
// "no order placed" — most calls never order anything.
func ReduceOrder(events []transport.ToolEvent) *transport.DraftOrder {
	draft := transport.DraftOrder{
		OrderType: OrderTypePickup,
		Items:     []transport.DraftOrderItem{},
	}

	for _, event := range events {
		switch event.Name {
		case toolAddToOrder:
			name := stringArg(event.Args, "item_name", "name")
			if name == "" {
				continue
			}
			quantity := intArg(event.Args, "quantity")
			if quantity <= 0 {
				quantity = 1
			}
			draft.Items = append(draft.Items, transport.DraftOrderItem{
				Name:                name,
				Quantity:            quantity,
				Modifiers:           coerceModifiers(event.Args["modifiers"]),
				SpecialInstructions: stringArg(event.Args, "special_instructions"),
			})

		case toolRemoveFromOrder:
			name := stringArg(event.Args, "item_name", "name")
			if name == "" {
				continue
			}
			// Exact case-insensitive removal only. Fuzzy removal would be
			// asymmetric with how the item was added by the agent.
			kept := draft.Items[:0]
			for _, item := range draft.Items {
				if !strings.EqualFold(item.Name, name) {
					kept = append(kept, item)
				}
			}
			draft.Items = kept

		case toolSetOrderType:
			if orderType := stringArg(event.Args, "order_type", "type"); orderType != "" {
				draft.OrderType = strings.ToLower(orderType)
			}

		case toolSetDeliveryAddress:
			if address := stringArg(event.Args, "address", "delivery_address"); address != "" {
				draft.DeliveryAddress = address
			}

		case toolSetCustomerInfo:
			// Partial update: omitted fields are not cleared.
			if name := stringArg(event.Args, "name", "customer_name"); name != "" {
				draft.CustomerName = name
			}
			if phone := stringArg(event.Args, "phone", "customer_phone"); phone != "" {
				draft.CustomerPhone = phone
			}
		}
	}

	if len(draft.Items) == 0 {
		return nil
	}
	return &draft
}

func stringArg(args map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := args[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func intArg(args map[string]any, key string) int {
	switch value := args[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	}
	return 0
}

// coerceModifiers converts the loosely-typed modifiers payload into typed
// modifiers. Missing prices default to 0; entries that are not objects are
// dropped.
func coerceModifiers(raw any) []transport.ItemModifier {
	list, ok := raw.([]any)
	if !ok {
		return []transport.ItemModifier{}
	}

	modifiers := make([]transport.ItemModifier, 0, len(list))
	for _, element := range list {
		entry, ok := element.(map[string]any)
		if !ok {
			continue
		}
		modifier := transport.ItemModifier{
			Group:  stringArg(entry, "group"),
			Option: stringArg(entry, "option"),
		}
		if price, ok := entry["price"].(float64); ok {
			modifier.Price = price
		}
		modifiers = append(modifiers, modifier)
	}
	return modifiers
}
