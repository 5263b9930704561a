// Package repository provides data access for the restaurants bounded context.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orderline_backend/platform/apperr"
)

const restaurantNotFoundMessage = "restaurant not found"

// Restaurant is the persisted restaurant settings row.
type Restaurant struct {
	ID               uuid.UUID
	Name             string
	PhoneNumber      string
	AgentPhoneNumber string
	TaxRate          float64
	DeliveryFee      float64
	DeliveryEnabled  bool
	NotifyEmail      *string
	Timezone         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UpdateParams contains the nullable fields for a partial settings update.
type UpdateParams struct {
	ID              uuid.UUID
	Name            *string
	PhoneNumber     *string
	TaxRate         *float64
	DeliveryFee     *float64
	DeliveryEnabled *bool
	NotifyEmail     *string
	Timezone        *string
}

// Repo implements the restaurants repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new restaurants repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const restaurantColumns = `id, name, phone_number, agent_phone_number, tax_rate, delivery_fee, delivery_enabled, notify_email, timezone, created_at, updated_at`

func scanRestaurant(row pgx.Row) (Restaurant, error) {
	var r Restaurant
	err := row.Scan(
		&r.ID, &r.Name, &r.PhoneNumber, &r.AgentPhoneNumber, &r.TaxRate,
		&r.DeliveryFee, &r.DeliveryEnabled, &r.NotifyEmail, &r.Timezone,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// GetByID retrieves a restaurant by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Restaurant, error) {
	query := fmt.Sprintf(`SELECT %s FROM restaurants WHERE id = $1`, restaurantColumns)

	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Restaurant{}, apperr.NotFound(restaurantNotFoundMessage)
		}
		return Restaurant{}, fmt.Errorf("get restaurant by id: %w", err)
	}
	return restaurant, nil
}

// GetByAgentNumber retrieves the restaurant assigned to a voice agent phone
// number. Used by the webhook dispatcher to resolve the dialed number.
func (r *Repo) GetByAgentNumber(ctx context.Context, agentNumber string) (Restaurant, error) {
	query := fmt.Sprintf(`SELECT %s FROM restaurants WHERE agent_phone_number = $1`, restaurantColumns)

	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, query, agentNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Restaurant{}, apperr.NotFound(restaurantNotFoundMessage)
		}
		return Restaurant{}, fmt.Errorf("get restaurant by agent number: %w", err)
	}
	return restaurant, nil
}

// Update applies a partial settings update and returns the updated row.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Restaurant, error) {
	query := fmt.Sprintf(`
		UPDATE restaurants
		SET name = COALESCE($2, name),
			phone_number = COALESCE($3, phone_number),
			tax_rate = COALESCE($4, tax_rate),
			delivery_fee = COALESCE($5, delivery_fee),
			delivery_enabled = COALESCE($6, delivery_enabled),
			notify_email = COALESCE($7, notify_email),
			timezone = COALESCE($8, timezone),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, restaurantColumns)

	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.PhoneNumber, params.TaxRate,
		params.DeliveryFee, params.DeliveryEnabled, params.NotifyEmail, params.Timezone,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Restaurant{}, apperr.NotFound(restaurantNotFoundMessage)
		}
		return Restaurant{}, fmt.Errorf("update restaurant: %w", err)
	}
	return restaurant, nil
}
