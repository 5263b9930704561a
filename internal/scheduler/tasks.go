// Package scheduler wraps the asynq task queue: task definitions, the
// enqueue client and the background worker.
package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task types.
const (
	TypeOrderNotify = "orders:notify"
)

// OrderNotifyPayload asks the worker to notify restaurant staff of a new
// order.
type OrderNotifyPayload struct {
	OrderID      uuid.UUID `json:"order_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
}

// NewOrderNotifyTask builds the staff notification task.
func NewOrderNotifyTask(orderID, restaurantID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(OrderNotifyPayload{OrderID: orderID, RestaurantID: restaurantID})
	if err != nil {
		return nil, fmt.Errorf("marshal order notify payload: %w", err)
	}
	return asynq.NewTask(TypeOrderNotify, payload, asynq.MaxRetry(5)), nil
}
