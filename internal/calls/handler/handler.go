// Package handler exposes the voice webhook, the live tool-call side channel
// and the dashboard call views.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orderline_backend/internal/calls/service"
	"orderline_backend/internal/calls/transport"
	"orderline_backend/platform/httpkit"
)

// Handler handles calls HTTP requests.
type Handler struct {
	service *service.Service
}

// New creates a new calls handler.
func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// Webhook receives vendor call lifecycle events. Runs behind VerifySignature.
// POST /api/v1/webhooks/voice
func (h *Handler) Webhook(c *gin.Context) {
	var envelope transport.WebhookEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid webhook payload", err.Error())
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), envelope); err != nil {
		// Internal failures surface as 500 so the vendor retries the delivery.
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"received": true})
}

// LiveTool acknowledges a tool call during an active conversation. It only
// keeps the dialogue flowing; commerce state changes at call end.
// POST /api/v1/tools/voice
func (h *Handler) LiveTool(c *gin.Context) {
	var req transport.LiveToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid tool payload", err.Error())
		return
	}
	httpkit.OK(c, transport.LiveToolResponse{Result: ackForTool(req)})
}

func ackForTool(req transport.LiveToolRequest) string {
	switch req.Name {
	case "add_to_order":
		if name, ok := req.Args["item_name"].(string); ok && name != "" {
			return "Added " + name + " to the order."
		}
		return "Added to the order."
	case "remove_from_order":
		if name, ok := req.Args["item_name"].(string); ok && name != "" {
			return "Removed " + name + " from the order."
		}
		return "Removed from the order."
	case "set_order_type":
		return "Order type noted."
	case "set_delivery_address":
		return "Delivery address saved."
	case "set_customer_info":
		return "Customer details saved."
	default:
		return "Okay."
	}
}

// ListCalls returns recent calls for the dashboard.
// GET /api/v1/calls
func (h *Handler) ListCalls(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	calls, err := h.service.ListCalls(c.Request.Context(), restaurantID, limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, calls)
}

// GetCall returns a single call with transcript and analysis.
// GET /api/v1/calls/:id
func (h *Handler) GetCall(c *gin.Context) {
	restaurantID, ok := httpkit.RestaurantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no restaurant context", nil)
		return
	}

	callID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid call id", nil)
		return
	}

	call, err := h.service.GetCall(c.Request.Context(), restaurantID, callID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, call)
}
