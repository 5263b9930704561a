// Package handler exposes order management over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orderline_backend/internal/orders/service"
	"orderline_backend/internal/orders/transport"
	"orderline_backend/platform/httpkit"
	"orderline_backend/platform/validator"
)

// Handler handles orders HTTP requests.
type Handler struct {
	service *service.Service
	val     *validator.Validator
}

// New creates a new orders handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: svc, val: val}
}

// ListOrders returns the restaurant's orders, newest first.
// GET /api/v1/orders?status=pending
func (h *Handler) ListOrders(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.service.List(c.Request.Context(), restaurantID, c.Query("status"), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, orders)
}

// GetOrder returns one order with its items.
// GET /api/v1/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}

	order, err := h.service.Get(c.Request.Context(), restaurantID, orderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, order)
}

// UpdateStatus moves an order through the kitchen pipeline.
// PUT /api/v1/orders/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), restaurantID, orderID, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, order)
}
