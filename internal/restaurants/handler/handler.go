// Package handler exposes restaurant settings over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orderline_backend/internal/restaurants/service"
	"orderline_backend/internal/restaurants/transport"
	"orderline_backend/platform/httpkit"
	"orderline_backend/platform/validator"
)

// Handler handles restaurant HTTP requests.
type Handler struct {
	service *service.Service
	val     *validator.Validator
}

// New creates a new restaurants handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: svc, val: val}
}

// GetSettings returns the authenticated staff member's restaurant settings.
// GET /api/v1/restaurant
func (h *Handler) GetSettings(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), restaurantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// UpdateSettings applies a partial update to restaurant settings.
// PUT /api/v1/restaurant
func (h *Handler) UpdateSettings(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	var req transport.UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), restaurantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
