// Package notification delivers staff-facing notifications for new orders:
// an in-process event log line for the dashboard feed and an email sent from
// the background worker.
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/wneessen/go-mail"

	"orderline_backend/internal/events"
	ordersservice "orderline_backend/internal/orders/service"
	orderstransport "orderline_backend/internal/orders/transport"
	restauranttransport "orderline_backend/internal/restaurants/transport"
	"orderline_backend/internal/scheduler"
	"orderline_backend/platform/config"
	"orderline_backend/platform/logger"
)

// OrderReader fetches an order with its items. Satisfied by the orders
// service.
type OrderReader interface {
	Get(ctx context.Context, restaurantID, orderID uuid.UUID) (orderstransport.OrderResponse, error)
}

// RestaurantReader fetches restaurant settings. Satisfied by the restaurants
// service.
type RestaurantReader interface {
	Get(ctx context.Context, id uuid.UUID) (restauranttransport.RestaurantResponse, error)
}

// Service sends order notifications.
type Service struct {
	orders      OrderReader
	restaurants RestaurantReader
	email       config.EmailConfig
	logger      *logger.Logger
}

// New creates a notification service.
func New(orders OrderReader, restaurants RestaurantReader, email config.EmailConfig, log *logger.Logger) *Service {
	return &Service{
		orders:      orders,
		restaurants: restaurants,
		email:       email,
		logger:      log,
	}
}

// Subscribe attaches the service to the in-process event bus.
func (s *Service) Subscribe(bus events.Bus) {
	bus.Subscribe(ordersservice.OrderCreatedEventName, events.HandlerFunc(s.onOrderCreated))
}

func (s *Service) onOrderCreated(_ context.Context, event events.Event) error {
	created, ok := event.(ordersservice.OrderCreatedEvent)
	if !ok {
		return nil
	}
	s.logger.Info("new order",
		"order_id", created.OrderID.String(),
		"restaurant_id", created.RestaurantID.String(),
		"order_type", created.OrderType,
		"total", created.Total,
	)
	return nil
}

// HandleOrderNotifyTask is the worker-side handler emailing restaurant staff
// about a new order. Restaurants without a notify address are skipped.
func (s *Service) HandleOrderNotifyTask(ctx context.Context, task *asynq.Task) error {
	var payload scheduler.OrderNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode order notify payload: %w", err)
	}

	restaurant, err := s.restaurants.Get(ctx, payload.RestaurantID)
	if err != nil {
		return err
	}
	if !s.email.GetEmailEnabled() || restaurant.NotifyEmail == nil || *restaurant.NotifyEmail == "" {
		s.logger.Debug("order notification skipped", "order_id", payload.OrderID.String())
		return nil
	}

	order, err := s.orders.Get(ctx, payload.RestaurantID, payload.OrderID)
	if err != nil {
		return err
	}

	return s.sendOrderEmail(ctx, restaurant, order)
}

func (s *Service) sendOrderEmail(ctx context.Context, restaurant restauranttransport.RestaurantResponse, order orderstransport.OrderResponse) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.email.GetEmailFromName(), s.email.GetEmailFromAddress()); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(*restaurant.NotifyEmail); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(fmt.Sprintf("New %s order — $%.2f", order.OrderType, order.Total))
	msg.SetBodyString(mail.TypeTextPlain, orderEmailBody(restaurant.Name, order))

	client, err := mail.NewClient(s.email.GetSMTPHost(),
		mail.WithPort(s.email.GetSMTPPort()),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.email.GetSMTPUsername()),
		mail.WithPassword(s.email.GetSMTPPassword()),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send order email: %w", err)
	}
	s.logger.Info("order email sent", "order_id", order.ID.String())
	return nil
}

func orderEmailBody(restaurantName string, order orderstransport.OrderResponse) string {
	body := fmt.Sprintf("New phone order for %s\n\n", restaurantName)
	for _, item := range order.Items {
		body += fmt.Sprintf("%d x %s — $%.2f\n", item.Quantity, item.Name, item.ItemTotal)
		for _, modifier := range item.Modifiers {
			body += fmt.Sprintf("    %s: %s (+$%.2f)\n", modifier.Group, modifier.Option, modifier.Price)
		}
	}
	body += fmt.Sprintf("\nSubtotal: $%.2f\nTax: $%.2f\n", order.Subtotal, order.Tax)
	if order.DeliveryFee > 0 {
		body += fmt.Sprintf("Delivery fee: $%.2f\n", order.DeliveryFee)
	}
	body += fmt.Sprintf("Total: $%.2f\n", order.Total)
	if order.CustomerName != nil {
		body += fmt.Sprintf("\nCustomer: %s", *order.CustomerName)
		if order.CustomerPhone != nil {
			body += fmt.Sprintf(" (%s)", *order.CustomerPhone)
		}
		body += "\n"
	}
	if order.DeliveryAddress != nil {
		body += fmt.Sprintf("Deliver to: %s\n", *order.DeliveryAddress)
	}
	return body
}
