// Package repository provides data access for the calls bounded context.
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

const callNotFoundMessage = "call not found"

// Call is the persisted call row.
type Call struct {
	ID                  uuid.UUID
	RestaurantID        uuid.UUID
	VendorCallID        string
	FromNumber          string
	ToNumber            string
	Status              string
	DurationMs          *int64
	Transcript          *string
	RecordingURL        *string
	DisconnectionReason *string
	Summary             *string
	Sentiment           *string
	OrderID             *uuid.UUID
	CustomerID          *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EndedParams are the terminal fields set once by the ended webhook.
type EndedParams struct {
	VendorCallID        string
	Status              string
	DurationMs          int64
	Transcript          string
	RecordingURL        string
	DisconnectionReason string
}

// AnalysisParams are the post-call fields set by the analyzed webhook. They
// are disjoint from EndedParams so the two events cannot clobber each other.
type AnalysisParams struct {
	VendorCallID string
	Summary      string
	Sentiment    string
}

// Repo implements the calls repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new calls repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const callColumns = `id, restaurant_id, vendor_call_id, from_number, to_number, status, duration_ms, transcript, recording_url, disconnection_reason, summary, sentiment, order_id, customer_id, created_at, updated_at`

func scanCall(row pgx.Row) (Call, error) {
	var c Call
	err := row.Scan(
		&c.ID, &c.RestaurantID, &c.VendorCallID, &c.FromNumber, &c.ToNumber,
		&c.Status, &c.DurationMs, &c.Transcript, &c.RecordingURL,
		&c.DisconnectionReason, &c.Summary, &c.Sentiment, &c.OrderID,
		&c.CustomerID, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Create inserts the initial call row when the started webhook arrives.
// Vendor retries of the same event are absorbed by the unique vendor call id.
func (r *Repo) Create(ctx context.Context, restaurantID uuid.UUID, vendorCallID, fromNumber, toNumber, status string) (Call, error) {
	query := fmt.Sprintf(`
		INSERT INTO calls (restaurant_id, vendor_call_id, from_number, to_number, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (vendor_call_id) DO UPDATE SET updated_at = now()
		RETURNING %s`, callColumns)

	call, err := scanCall(r.pool.QueryRow(ctx, query, restaurantID, vendorCallID, fromNumber, toNumber, status))
	if err != nil {
		return Call{}, fmt.Errorf("create call: %w", err)
	}
	return call, nil
}

// GetByVendorCallID retrieves a call by the vendor's call identifier.
func (r *Repo) GetByVendorCallID(ctx context.Context, vendorCallID string) (Call, error) {
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE vendor_call_id = $1`, callColumns)

	call, err := scanCall(r.pool.QueryRow(ctx, query, vendorCallID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Call{}, apperr.NotFound(callNotFoundMessage)
		}
		return Call{}, fmt.Errorf("get call by vendor id: %w", err)
	}
	return call, nil
}

// GetByID retrieves a call scoped to a restaurant.
func (r *Repo) GetByID(ctx context.Context, restaurantID, callID uuid.UUID) (Call, error) {
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE id = $1 AND restaurant_id = $2`, callColumns)

	call, err := scanCall(r.pool.QueryRow(ctx, query, callID, restaurantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Call{}, apperr.NotFound(callNotFoundMessage)
		}
		return Call{}, fmt.Errorf("get call: %w", err)
	}
	return call, nil
}

// List returns the restaurant's calls, newest first.
func (r *Repo) List(ctx context.Context, restaurantID uuid.UUID, limit, offset int) ([]Call, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM calls
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, callColumns)

	rows, err := r.pool.Query(ctx, query, restaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	defer rows.Close()

	calls := make([]Call, 0)
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		calls = append(calls, call)
	}
	return calls, rows.Err()
}

// MarkEnded writes the terminal fields. Only the ended event's own fields are
// touched so a racing analyzed event is never overwritten.
func (r *Repo) MarkEnded(ctx context.Context, params EndedParams) (Call, error) {
	query := fmt.Sprintf(`
		UPDATE calls
		SET status = $2,
			duration_ms = $3,
			transcript = NULLIF($4, ''),
			recording_url = NULLIF($5, ''),
			disconnection_reason = NULLIF($6, ''),
			updated_at = now()
		WHERE vendor_call_id = $1
		RETURNING %s`, callColumns)

	call, err := scanCall(r.pool.QueryRow(ctx, query,
		params.VendorCallID, params.Status, params.DurationMs,
		params.Transcript, params.RecordingURL, params.DisconnectionReason,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Call{}, apperr.NotFound(callNotFoundMessage)
		}
		return Call{}, fmt.Errorf("mark call ended: %w", err)
	}
	return call, nil
}

// AttachAnalysis writes the analyzed event's fields. May run before or after
// MarkEnded; the column sets are disjoint.
func (r *Repo) AttachAnalysis(ctx context.Context, params AnalysisParams) (Call, error) {
	query := fmt.Sprintf(`
		UPDATE calls
		SET summary = NULLIF($2, ''),
			sentiment = NULLIF($3, ''),
			updated_at = now()
		WHERE vendor_call_id = $1
		RETURNING %s`, callColumns)

	call, err := scanCall(r.pool.QueryRow(ctx, query, params.VendorCallID, params.Summary, params.Sentiment))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Call{}, apperr.NotFound(callNotFoundMessage)
		}
		return Call{}, fmt.Errorf("attach call analysis: %w", err)
	}
	return call, nil
}
