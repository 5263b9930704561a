// Package repository provides data access for the menu bounded context.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orderline_backend/internal/menu/transport"
	"orderline_backend/platform/apperr"
)

const itemNotFoundMessage = "menu item not found"

// MenuItem is the persisted menu item row.
type MenuItem struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	CategoryID   *uuid.UUID
	Name         string
	Description  *string
	BasePrice    float64
	IsAvailable  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Category is a persisted menu category row.
type Category struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	SortOrder    int
}

// CatalogItem is the slim projection the order matcher works against.
type CatalogItem struct {
	ID        uuid.UUID
	Name      string
	BasePrice float64
}

// CreateItemParams contains fields for inserting a menu item.
type CreateItemParams struct {
	RestaurantID uuid.UUID
	CategoryID   *uuid.UUID
	Name         string
	Description  *string
	BasePrice    float64
	IsAvailable  bool
}

// UpdateItemParams contains the nullable fields for a partial item update.
type UpdateItemParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	CategoryID   *uuid.UUID
	Name         *string
	Description  *string
	BasePrice    *float64
	IsAvailable  *bool
}

// Repo implements the menu repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new menu repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const itemColumns = `id, restaurant_id, category_id, name, description, base_price, is_available, created_at, updated_at`

func scanItem(row pgx.Row) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(
		&m.ID, &m.RestaurantID, &m.CategoryID, &m.Name, &m.Description,
		&m.BasePrice, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// GetItem retrieves a menu item scoped to a restaurant.
func (r *Repo) GetItem(ctx context.Context, restaurantID, itemID uuid.UUID) (MenuItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM menu_items WHERE id = $1 AND restaurant_id = $2`, itemColumns)

	item, err := scanItem(r.pool.QueryRow(ctx, query, itemID, restaurantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MenuItem{}, apperr.NotFound(itemNotFoundMessage)
		}
		return MenuItem{}, fmt.Errorf("get menu item: %w", err)
	}
	return item, nil
}

// ListItems returns all items for a restaurant ordered by name.
func (r *Repo) ListItems(ctx context.Context, restaurantID uuid.UUID) ([]MenuItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM menu_items WHERE restaurant_id = $1 ORDER BY name`, itemColumns)

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := make([]MenuItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListCategories returns the restaurant's categories in display order.
func (r *Repo) ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, restaurant_id, name, sort_order FROM menu_categories
		 WHERE restaurant_id = $1 ORDER BY sort_order, name`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menu categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan menu category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateItem inserts a menu item and returns the stored row.
func (r *Repo) CreateItem(ctx context.Context, params CreateItemParams) (MenuItem, error) {
	query := fmt.Sprintf(`
		INSERT INTO menu_items (restaurant_id, category_id, name, description, base_price, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, itemColumns)

	item, err := scanItem(r.pool.QueryRow(ctx, query,
		params.RestaurantID, params.CategoryID, params.Name,
		params.Description, params.BasePrice, params.IsAvailable,
	))
	if err != nil {
		return MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}
	return item, nil
}

// UpdateItem applies a partial update and returns the updated row.
func (r *Repo) UpdateItem(ctx context.Context, params UpdateItemParams) (MenuItem, error) {
	query := fmt.Sprintf(`
		UPDATE menu_items
		SET name = COALESCE($3, name),
			description = COALESCE($4, description),
			base_price = COALESCE($5, base_price),
			category_id = COALESCE($6, category_id),
			is_available = COALESCE($7, is_available),
			updated_at = now()
		WHERE id = $1 AND restaurant_id = $2
		RETURNING %s`, itemColumns)

	item, err := scanItem(r.pool.QueryRow(ctx, query,
		params.ID, params.RestaurantID, params.Name, params.Description,
		params.BasePrice, params.CategoryID, params.IsAvailable,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MenuItem{}, apperr.NotFound(itemNotFoundMessage)
		}
		return MenuItem{}, fmt.Errorf("update menu item: %w", err)
	}
	return item, nil
}

// DeleteItem removes a menu item scoped to a restaurant.
func (r *Repo) DeleteItem(ctx context.Context, restaurantID, itemID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM menu_items WHERE id = $1 AND restaurant_id = $2`, itemID, restaurantID)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(itemNotFoundMessage)
	}
	return nil
}

// ListCatalogItems returns the available items used for order matching.
// Unavailable items are excluded so the matcher cannot resolve to them.
func (r *Repo) ListCatalogItems(ctx context.Context, restaurantID uuid.UUID) ([]CatalogItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, base_price FROM menu_items
		 WHERE restaurant_id = $1 AND is_available = true ORDER BY name`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	items := make([]CatalogItem, 0)
	for rows.Next() {
		var item CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.BasePrice); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ReplaceMenu atomically replaces the restaurant's menu with an extracted one.
// Existing categories and items are removed first so a re-scrape does not
// accumulate stale rows. Returns the number of imported items.
func (r *Repo) ReplaceMenu(ctx context.Context, restaurantID uuid.UUID, menu transport.ExtractedMenu) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin menu import: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE restaurant_id = $1`, restaurantID); err != nil {
		return 0, fmt.Errorf("clear menu items: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM menu_categories WHERE restaurant_id = $1`, restaurantID); err != nil {
		return 0, fmt.Errorf("clear menu categories: %w", err)
	}

	imported := 0
	for sortOrder, category := range menu.Categories {
		var categoryID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO menu_categories (restaurant_id, name, sort_order)
			 VALUES ($1, $2, $3) RETURNING id`,
			restaurantID, category.Name, sortOrder,
		).Scan(&categoryID)
		if err != nil {
			return 0, fmt.Errorf("insert menu category: %w", err)
		}

		for _, item := range category.Items {
			var description *string
			if item.Description != "" {
				description = &item.Description
			}

			var itemID uuid.UUID
			err := tx.QueryRow(ctx,
				`INSERT INTO menu_items (restaurant_id, category_id, name, description, base_price, is_available)
				 VALUES ($1, $2, $3, $4, $5, true) RETURNING id`,
				restaurantID, categoryID, item.Name, description, item.Price,
			).Scan(&itemID)
			if err != nil {
				return 0, fmt.Errorf("insert menu item: %w", err)
			}
			imported++

			if err := insertModifiers(ctx, tx, itemID, item.Modifiers); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit menu import: %w", err)
	}
	return imported, nil
}

func insertModifiers(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, groups []transport.ExtractedModifierGroup) error {
	for _, group := range groups {
		var groupID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO modifier_groups (item_id, name, required)
			 VALUES ($1, $2, $3) RETURNING id`,
			itemID, group.GroupName, group.Required,
		).Scan(&groupID)
		if err != nil {
			return fmt.Errorf("insert modifier group: %w", err)
		}

		for _, option := range group.Options {
			_, err := tx.Exec(ctx,
				`INSERT INTO modifier_options (group_id, name, price_adjustment)
				 VALUES ($1, $2, $3)`,
				groupID, option.Name, option.PriceAdjustment,
			)
			if err != nil {
				return fmt.Errorf("insert modifier option: %w", err)
			}
		}
	}
	return nil
}
