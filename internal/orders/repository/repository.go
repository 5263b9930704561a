// Package repository provides data access for the orders bounded context,
// including the atomic call-to-order write.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orderline_backend/internal/orders/transport"
	"orderline_backend/platform/apperr"
)

const orderNotFoundMessage = "order not found"

// Order is the persisted order row.
type Order struct {
	ID              uuid.UUID
	RestaurantID    uuid.UUID
	CustomerID      *uuid.UUID
	CallID          *uuid.UUID
	Status          string
	OrderType       string
	CustomerName    *string
	CustomerPhone   *string
	DeliveryAddress *string
	Subtotal        float64
	Tax             float64
	DeliveryFee     float64
	Total           float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is a persisted order line.
type OrderItem struct {
	ID                  uuid.UUID
	OrderID             uuid.UUID
	MenuItemID          *uuid.UUID
	Name                string
	Quantity            int
	UnitPrice           float64
	ItemTotal           float64
	Modifiers           []transport.OrderItemModifier
	SpecialInstructions *string
}

// ItemParams is one order line to insert.
type ItemParams struct {
	MenuItemID          *uuid.UUID
	Name                string
	Quantity            int
	UnitPrice           float64
	ItemTotal           float64
	Modifiers           []transport.OrderItemModifier
	SpecialInstructions string
}

// CreateForCallParams is the atomic call-to-order write.
type CreateForCallParams struct {
	RestaurantID    uuid.UUID
	CallID          uuid.UUID
	OrderType       string
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Subtotal        float64
	Tax             float64
	DeliveryFee     float64
	Total           float64
	Items           []ItemParams
}

// Repo implements the orders repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new orders repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const orderColumns = `id, restaurant_id, customer_id, call_id, status, order_type, customer_name, customer_phone, delivery_address, subtotal, tax, delivery_fee, total, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.RestaurantID, &o.CustomerID, &o.CallID, &o.Status,
		&o.OrderType, &o.CustomerName, &o.CustomerPhone, &o.DeliveryAddress,
		&o.Subtotal, &o.Tax, &o.DeliveryFee, &o.Total,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// CreateForCall performs the multi-row order write in one transaction:
// call-row lock and idempotency check, customer upsert, order insert, item
// inserts and the call back-reference. A failure anywhere rolls everything
// back so a zero-item order can never exist.
func (r *Repo) CreateForCall(ctx context.Context, params CreateForCallParams) (Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("begin order creation: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the call row for the duration of the write. A concurrent retry
	// blocks here and then sees the linked order.
	var linkedOrderID *uuid.UUID
	err = tx.QueryRow(ctx, `SELECT order_id FROM calls WHERE id = $1 FOR UPDATE`, params.CallID).Scan(&linkedOrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, apperr.NotFound("call not found")
		}
		return Order{}, fmt.Errorf("lock call row: %w", err)
	}
	if linkedOrderID != nil {
		return Order{}, apperr.Conflict("call already has an order")
	}

	customerID, err := upsertCustomer(ctx, tx, params.RestaurantID, params.CustomerPhone, params.CustomerName)
	if err != nil {
		return Order{}, err
	}

	query := fmt.Sprintf(`
		INSERT INTO orders (restaurant_id, customer_id, call_id, status, order_type, customer_name, customer_phone, delivery_address, subtotal, tax, delivery_fee, total)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12)
		RETURNING %s`, orderColumns)

	order, err := scanOrder(tx.QueryRow(ctx, query,
		params.RestaurantID, customerID, params.CallID, transport.StatusPending,
		params.OrderType, params.CustomerName, params.CustomerPhone, params.DeliveryAddress,
		params.Subtotal, params.Tax, params.DeliveryFee, params.Total,
	))
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range params.Items {
		modifiers, err := json.Marshal(item.Modifiers)
		if err != nil {
			return Order{}, fmt.Errorf("encode item modifiers: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, name, quantity, unit_price, item_total, modifiers, special_instructions)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))`,
			order.ID, item.MenuItemID, item.Name, item.Quantity,
			item.UnitPrice, item.ItemTotal, modifiers, item.SpecialInstructions,
		)
		if err != nil {
			return Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE calls SET order_id = $2, customer_id = $3, updated_at = now() WHERE id = $1`,
		params.CallID, order.ID, customerID,
	)
	if err != nil {
		return Order{}, fmt.Errorf("link call to order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, fmt.Errorf("commit order creation: %w", err)
	}
	return order, nil
}

// upsertCustomer finds or creates the customer by (restaurant, phone). A new
// name overwrites the stored one; a missing name preserves it. Calls without
// a usable phone number produce no customer row.
func upsertCustomer(ctx context.Context, tx pgx.Tx, restaurantID uuid.UUID, phone, name string) (*uuid.UUID, error) {
	if phone == "" {
		return nil, nil
	}

	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO customers (restaurant_id, phone, name)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (restaurant_id, phone)
		DO UPDATE SET name = COALESCE(NULLIF(EXCLUDED.name, ''), customers.name), updated_at = now()
		RETURNING id`,
		restaurantID, phone, name,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}
	return &id, nil
}

// GetByID retrieves an order with its items, scoped to a restaurant.
func (r *Repo) GetByID(ctx context.Context, restaurantID, orderID uuid.UUID) (Order, []OrderItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 AND restaurant_id = $2`, orderColumns)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID, restaurantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, nil, apperr.NotFound(orderNotFoundMessage)
		}
		return Order{}, nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.listItems(ctx, order.ID)
	if err != nil {
		return Order{}, nil, err
	}
	return order, items, nil
}

func (r *Repo) listItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, menu_item_id, name, quantity, unit_price, item_total, modifiers, special_instructions
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var item OrderItem
		var modifiers []byte
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Quantity,
			&item.UnitPrice, &item.ItemTotal, &modifiers, &item.SpecialInstructions,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if len(modifiers) > 0 {
			if err := json.Unmarshal(modifiers, &item.Modifiers); err != nil {
				return nil, fmt.Errorf("decode item modifiers: %w", err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// List returns the restaurant's orders, newest first, optionally filtered by
// status.
func (r *Repo) List(ctx context.Context, restaurantID uuid.UUID, status string, limit, offset int) ([]Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE restaurant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, orderColumns)

	rows, err := r.pool.Query(ctx, query, restaurantID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateStatus moves an order to a new status. Money fields are immutable
// after creation; only status and the timestamp change here.
func (r *Repo) UpdateStatus(ctx context.Context, restaurantID, orderID uuid.UUID, status string) (Order, error) {
	query := fmt.Sprintf(`
		UPDATE orders SET status = $3, updated_at = now()
		WHERE id = $1 AND restaurant_id = $2
		RETURNING %s`, orderColumns)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID, restaurantID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, apperr.NotFound(orderNotFoundMessage)
		}
		return Order{}, fmt.Errorf("update order status: %w", err)
	}
	return order, nil
}
