// Package handler exposes menu management over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orderline_backend/internal/menu/service"
	"orderline_backend/internal/menu/transport"
	"orderline_backend/platform/httpkit"
	"orderline_backend/platform/validator"
)

// Handler handles menu HTTP requests.
type Handler struct {
	service *service.Service
	val     *validator.Validator
}

// New creates a new menu handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: svc, val: val}
}

// GetMenu returns the restaurant's full menu.
// GET /api/v1/menu
func (h *Handler) GetMenu(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	resp, err := h.service.GetMenu(c.Request.Context(), restaurantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// CreateItem adds a menu item.
// POST /api/v1/menu/items
func (h *Handler) CreateItem(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	var req transport.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	resp, err := h.service.CreateItem(c.Request.Context(), restaurantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

// UpdateItem applies a partial update to a menu item.
// PUT /api/v1/menu/items/:id
func (h *Handler) UpdateItem(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid item id", nil)
		return
	}

	var req transport.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	resp, err := h.service.UpdateItem(c.Request.Context(), restaurantID, itemID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// DeleteItem removes a menu item.
// DELETE /api/v1/menu/items/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid item id", nil)
		return
	}

	if httpkit.HandleError(c, h.service.DeleteItem(c.Request.Context(), restaurantID, itemID)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ScrapeMenu imports a menu from the restaurant's website.
// POST /api/v1/menu/scrape
func (h *Handler) ScrapeMenu(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	var req transport.ScrapeMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	resp, err := h.service.ScrapeAndImport(c.Request.Context(), restaurantID, req.URL)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
