// Package service contains the menu business logic, including the website
// menu importer.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"orderline_backend/internal/menu/repository"
	"orderline_backend/internal/menu/transport"
	"orderline_backend/platform/logger"
)

// TextFetcher retrieves visible page text for a URL.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Service exposes menu operations.
type Service struct {
	repo    *repository.Repo
	fetcher TextFetcher
	logger  *logger.Logger
}

// New creates a new menu service.
func New(repo *repository.Repo, fetcher TextFetcher, log *logger.Logger) *Service {
	return &Service{repo: repo, fetcher: fetcher, logger: log}
}

// GetMenu returns the full menu grouped by category.
func (s *Service) GetMenu(ctx context.Context, restaurantID uuid.UUID) (transport.MenuResponse, error) {
	var (
		categories []repository.Category
		items      []repository.MenuItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.repo.ListCategories(gctx, restaurantID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.ListItems(gctx, restaurantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.MenuResponse{}, err
	}

	byCategory := make(map[uuid.UUID][]transport.MenuItemResponse)
	uncategorized := make([]transport.MenuItemResponse, 0)
	for _, item := range items {
		resp := toItemResponse(item)
		if item.CategoryID == nil {
			uncategorized = append(uncategorized, resp)
			continue
		}
		byCategory[*item.CategoryID] = append(byCategory[*item.CategoryID], resp)
	}

	out := transport.MenuResponse{
		Categories:    make([]transport.CategoryResponse, 0, len(categories)),
		Uncategorized: uncategorized,
	}
	for _, cat := range categories {
		catItems := byCategory[cat.ID]
		if catItems == nil {
			catItems = make([]transport.MenuItemResponse, 0)
		}
		out.Categories = append(out.Categories, transport.CategoryResponse{
			ID:    cat.ID,
			Name:  cat.Name,
			Items: catItems,
		})
	}
	return out, nil
}

// CreateItem adds a menu item.
func (s *Service) CreateItem(ctx context.Context, restaurantID uuid.UUID, req transport.CreateMenuItemRequest) (transport.MenuItemResponse, error) {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	item, err := s.repo.CreateItem(ctx, repository.CreateItemParams{
		RestaurantID: restaurantID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		BasePrice:    req.BasePrice,
		IsAvailable:  available,
	})
	if err != nil {
		return transport.MenuItemResponse{}, err
	}
	return toItemResponse(item), nil
}

// UpdateItem applies a partial update to a menu item.
func (s *Service) UpdateItem(ctx context.Context, restaurantID, itemID uuid.UUID, req transport.UpdateMenuItemRequest) (transport.MenuItemResponse, error) {
	item, err := s.repo.UpdateItem(ctx, repository.UpdateItemParams{
		ID:           itemID,
		RestaurantID: restaurantID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		BasePrice:    req.BasePrice,
		IsAvailable:  req.IsAvailable,
	})
	if err != nil {
		return transport.MenuItemResponse{}, err
	}
	return toItemResponse(item), nil
}

// DeleteItem removes a menu item.
func (s *Service) DeleteItem(ctx context.Context, restaurantID, itemID uuid.UUID) error {
	return s.repo.DeleteItem(ctx, restaurantID, itemID)
}

// ListCatalogItems returns the available items for order matching.
func (s *Service) ListCatalogItems(ctx context.Context, restaurantID uuid.UUID) ([]repository.CatalogItem, error) {
	return s.repo.ListCatalogItems(ctx, restaurantID)
}

// ScrapeAndImport fetches a restaurant website, extracts a menu from its
// visible text and replaces the stored menu with the result.
func (s *Service) ScrapeAndImport(ctx context.Context, restaurantID uuid.UUID, url string) (transport.ScrapeMenuResponse, error) {
	text, err := s.fetcher.FetchText(ctx, url)
	if err != nil {
		return transport.ScrapeMenuResponse{}, err
	}

	menu, err := ExtractMenu(text)
	if err != nil {
		return transport.ScrapeMenuResponse{}, err
	}

	imported, err := s.repo.ReplaceMenu(ctx, restaurantID, menu)
	if err != nil {
		return transport.ScrapeMenuResponse{}, err
	}

	s.logger.Info("menu imported from website",
		"restaurant_id", restaurantID.String(),
		"url", url,
		"categories", len(menu.Categories),
		"items", imported,
	)
	return transport.ScrapeMenuResponse{Menu: menu, ImportedItems: imported}, nil
}

func toItemResponse(item repository.MenuItem) transport.MenuItemResponse {
	return transport.MenuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		BasePrice:   item.BasePrice,
		CategoryID:  item.CategoryID,
		IsAvailable: item.IsAvailable,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}
