package transport

import "github.com/google/uuid"

// CreateMenuItemRequest contains data for creating a menu item.
type CreateMenuItemRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	BasePrice   float64    `json:"basePrice" validate:"gte=0"`
	CategoryID  *uuid.UUID `json:"categoryId,omitempty"`
	IsAvailable *bool      `json:"isAvailable,omitempty"`
}

// UpdateMenuItemRequest contains data for updating a menu item.
type UpdateMenuItemRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	BasePrice   *float64   `json:"basePrice,omitempty" validate:"omitempty,gte=0"`
	CategoryID  *uuid.UUID `json:"categoryId,omitempty"`
	IsAvailable *bool      `json:"isAvailable,omitempty"`
}

// MenuItemResponse represents a menu item in API responses.
type MenuItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	BasePrice   float64    `json:"basePrice"`
	CategoryID  *uuid.UUID `json:"categoryId,omitempty"`
	IsAvailable bool       `json:"isAvailable"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// CategoryResponse represents a menu category with its items.
type CategoryResponse struct {
	ID    uuid.UUID          `json:"id"`
	Name  string             `json:"name"`
	Items []MenuItemResponse `json:"items"`
}

// MenuResponse is the full menu for a restaurant.
type MenuResponse struct {
	Categories    []CategoryResponse `json:"categories"`
	Uncategorized []MenuItemResponse `json:"uncategorized"`
}

// ScrapeMenuRequest triggers a website menu import.
type ScrapeMenuRequest struct {
	URL string `json:"url" validate:"required,url,max=2000"`
}

// ExtractedModifierOption is a single choice within a modifier group.
type ExtractedModifierOption struct {
	Name            string  `json:"name"`
	PriceAdjustment float64 `json:"priceAdjustment"`
}

// ExtractedModifierGroup is a group of options attached to an extracted item.
type ExtractedModifierGroup struct {
	GroupName string                    `json:"groupName"`
	Required  bool                      `json:"required"`
	Options   []ExtractedModifierOption `json:"options"`
}

// ExtractedItem is a menu item parsed out of scraped page text.
type ExtractedItem struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Price       float64                  `json:"price"`
	Modifiers   []ExtractedModifierGroup `json:"modifiers,omitempty"`
}

// ExtractedCategory groups extracted items under a heading.
type ExtractedCategory struct {
	Name  string          `json:"name"`
	Items []ExtractedItem `json:"items"`
}

// ExtractedMenu is the result of the heuristic menu-text extractor.
type ExtractedMenu struct {
	Categories []ExtractedCategory `json:"categories"`
}

// ScrapeMenuResponse is returned by the scrape endpoint.
type ScrapeMenuResponse struct {
	Menu          ExtractedMenu `json:"menu"`
	ImportedItems int           `json:"importedItems"`
}
