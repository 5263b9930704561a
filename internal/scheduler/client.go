package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"orderline_backend/platform/config"
	"orderline_backend/platform/logger"
)

// Client enqueues background tasks. Satisfies the orders context's
// TaskEnqueuer.
type Client struct {
	client *asynq.Client
	queue  string
	logger *logger.Logger
}

// NewClient creates an asynq client from the redis URL.
func NewClient(cfg config.SchedulerConfig, log *logger.Logger) (*Client, error) {
	opt, err := asynq.ParseRedisURI(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  cfg.GetAsynqQueueName(),
		logger: log,
	}, nil
}

// EnqueueOrderNotification schedules the staff notification for a new order.
func (c *Client) EnqueueOrderNotification(ctx context.Context, orderID, restaurantID uuid.UUID) error {
	task, err := NewOrderNotifyTask(orderID, restaurantID)
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	if err != nil {
		return fmt.Errorf("enqueue order notification: %w", err)
	}
	c.logger.Debug("task enqueued", "task_id", info.ID, "type", info.Type)
	return nil
}

// Close releases the underlying redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
