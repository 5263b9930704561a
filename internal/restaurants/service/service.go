// Package service contains the restaurants business logic.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orderline_backend/internal/restaurants/repository"
	"orderline_backend/internal/restaurants/transport"
	"orderline_backend/platform/phone"
)

// Service exposes restaurant settings operations.
type Service struct {
	repo *repository.Repo
}

// New creates a new restaurants service.
func New(repo *repository.Repo) *Service {
	return &Service{repo: repo}
}

// Get returns the restaurant settings.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.RestaurantResponse, error) {
	restaurant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.RestaurantResponse{}, err
	}
	return toResponse(restaurant), nil
}

// GetByAgentNumber resolves the restaurant a voice call was dialed into.
func (s *Service) GetByAgentNumber(ctx context.Context, agentNumber string) (repository.Restaurant, error) {
	return s.repo.GetByAgentNumber(ctx, phone.NormalizeE164(agentNumber))
}

// Update applies a partial settings update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateRestaurantRequest) (transport.RestaurantResponse, error) {
	params := repository.UpdateParams{
		ID:              id,
		Name:            req.Name,
		TaxRate:         req.TaxRate,
		DeliveryFee:     req.DeliveryFee,
		DeliveryEnabled: req.DeliveryEnabled,
		NotifyEmail:     req.NotifyEmail,
		Timezone:        req.Timezone,
	}
	if req.PhoneNumber != nil {
		normalized := phone.NormalizeE164(*req.PhoneNumber)
		params.PhoneNumber = &normalized
	}

	restaurant, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.RestaurantResponse{}, err
	}
	return toResponse(restaurant), nil
}

func toResponse(r repository.Restaurant) transport.RestaurantResponse {
	return transport.RestaurantResponse{
		ID:               r.ID,
		Name:             r.Name,
		PhoneNumber:      r.PhoneNumber,
		AgentPhoneNumber: r.AgentPhoneNumber,
		TaxRate:          r.TaxRate,
		DeliveryFee:      r.DeliveryFee,
		DeliveryEnabled:  r.DeliveryEnabled,
		NotifyEmail:      r.NotifyEmail,
		Timezone:         r.Timezone,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        r.UpdatedAt.Format(time.RFC3339),
	}
}
