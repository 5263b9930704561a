// Package transport defines the wire types for the calls bounded context:
// inbound voice vendor webhooks, live tool-call requests and the draft order
// handed to the orders context.
package transport

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Webhook event types delivered by the voice vendor.
const (
	EventCallStarted  = "call_started"
	EventCallEnded    = "call_ended"
	EventCallAnalyzed = "call_analyzed"
)

// WebhookEnvelope is the outer shape of every vendor webhook delivery. The
// vendor nests the call state under "data".
type WebhookEnvelope struct {
	Event string      `json:"event"`
	Call  CallPayload `json:"data"`
}

// CallPayload carries the vendor's call state. Only the fields the pipeline
// consumes are modeled; the rest of the vendor payload is ignored.
type CallPayload struct {
	CallID                  string            `json:"call_id"`
	FromNumber              string            `json:"from_number"`
	ToNumber                string            `json:"to_number"`
	Direction               string            `json:"direction"`
	DisconnectionReason     string            `json:"disconnection_reason"`
	DurationMs              int64             `json:"duration_ms"`
	Transcript              string            `json:"transcript"`
	TranscriptWithToolCalls []TranscriptEntry `json:"transcript_with_tool_calls"`
	RecordingURL            string            `json:"recording_url"`
	CallAnalysis            *CallAnalysis     `json:"call_analysis,omitempty"`
}

// CallAnalysis is the post-call metadata attached by the call_analyzed event.
type CallAnalysis struct {
	CallSummary    string          `json:"call_summary"`
	UserSentiment  string          `json:"user_sentiment"`
	CallSuccessful *bool           `json:"call_successful,omitempty"`
	CustomData     json.RawMessage `json:"custom_analysis_data,omitempty"`
}

// TranscriptEntry is one element of transcript_with_tool_calls. The vendor
// emits two encodings: an embedded single invocation (ToolCallInvocation) or
// a conversation turn carrying a tool_calls array.
type TranscriptEntry struct {
	Role               string              `json:"role"`
	Content            string              `json:"content"`
	ToolCallInvocation *ToolCallInvocation `json:"tool_call_invocation,omitempty"`
	ToolCalls          []ToolCall          `json:"tool_calls,omitempty"`
}

// ToolCallInvocation is the embedded single-invocation encoding. Arguments
// arrive either as a JSON-encoded string or as a native object.
type ToolCallInvocation struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolCall is one element of a turn's tool_calls array. The function name
// appears either flat (function_name) or nested under "function"; arguments
// likewise live flat or nested.
type ToolCall struct {
	FunctionName string          `json:"function_name,omitempty"`
	Arguments    json.RawMessage `json:"arguments,omitempty"`
	Function     *ToolFunction   `json:"function,omitempty"`
}

// ToolFunction is the nested function encoding within a ToolCall.
type ToolFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolEvent is the canonical (name, args) pair the normalizer produces and
// the reducer consumes. Sequence order is transcript order.
type ToolEvent struct {
	Name string
	Args map[string]any
}

// ItemModifier is a selected modifier on a draft order item.
type ItemModifier struct {
	Group  string  `json:"group"`
	Option string  `json:"option"`
	Price  float64 `json:"price"`
}

// DraftOrderItem is one line of the in-memory cart built from tool events.
// Name stays the raw spoken string until catalog matching.
type DraftOrderItem struct {
	Name                string         `json:"name"`
	Quantity            int            `json:"quantity"`
	Modifiers           []ItemModifier `json:"modifiers"`
	SpecialInstructions string         `json:"specialInstructions,omitempty"`
}

// DraftOrder is the reduced cart for one call.
type DraftOrder struct {
	OrderType       string           `json:"orderType"`
	Items           []DraftOrderItem `json:"items"`
	CustomerName    string           `json:"customerName,omitempty"`
	CustomerPhone   string           `json:"customerPhone,omitempty"`
	DeliveryAddress string           `json:"deliveryAddress,omitempty"`
}

// CreateOrderFromCall is the request handed to the orders context when a
// completed call produced a non-empty draft order.
type CreateOrderFromCall struct {
	RestaurantID uuid.UUID
	CallID       uuid.UUID
	VendorCallID string
	CallerNumber string
	Draft        DraftOrder
}

// CreatedOrderRef identifies the order produced from a call.
type CreatedOrderRef struct {
	OrderID    uuid.UUID
	CustomerID *uuid.UUID
	Total      float64
}

// LiveToolRequest is the side-channel request the agent sends during an
// active call. It is acknowledged synchronously and mutates nothing.
type LiveToolRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
	Call *CallPayload   `json:"call,omitempty"`
}

// LiveToolResponse is the short acknowledgement returned to the agent.
type LiveToolResponse struct {
	Result string `json:"result"`
}

// CallResponse represents a call in dashboard API responses.
type CallResponse struct {
	ID                  uuid.UUID  `json:"id"`
	VendorCallID        string     `json:"vendorCallId"`
	FromNumber          string     `json:"fromNumber"`
	Status              string     `json:"status"`
	DurationMs          *int64     `json:"durationMs,omitempty"`
	Transcript          *string    `json:"transcript,omitempty"`
	RecordingURL        *string    `json:"recordingUrl,omitempty"`
	DisconnectionReason *string    `json:"disconnectionReason,omitempty"`
	Summary             *string    `json:"summary,omitempty"`
	Sentiment           *string    `json:"sentiment,omitempty"`
	OrderID             *uuid.UUID `json:"orderId,omitempty"`
	CreatedAt           string     `json:"createdAt"`
}
