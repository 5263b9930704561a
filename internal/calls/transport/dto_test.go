package transport

import (
	"encoding/json"
	"testing"
)

func TestWebhookEnvelopeDecodesVendorDelivery(t *testing.T) {
	body := []byte(`{
		"event": "call_ended",
		"data": {
			"call_id": "call_abc123",
			"from_number": "+15551234567",
			"to_number": "+15559876543",
			"disconnection_reason": "user_hangup",
			"duration_ms": 92000,
			"transcript_with_tool_calls": [
				{
					"role": "agent",
					"tool_call_invocation": {
						"name": "add_to_order",
						"arguments": {"item_name": "Pad Thai", "quantity": 2}
					}
				}
			]
		}
	}`)

	var envelope WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal delivery: %v", err)
	}

	if envelope.Event != EventCallEnded {
		t.Errorf("expected event %q, got %q", EventCallEnded, envelope.Event)
	}
	if envelope.Call.CallID != "call_abc123" {
		t.Fatalf("payload under \"data\" was not bound: call_id = %q", envelope.Call.CallID)
	}
	if envelope.Call.DisconnectionReason != "user_hangup" {
		t.Errorf("disconnection_reason not bound: %q", envelope.Call.DisconnectionReason)
	}
	if len(envelope.Call.TranscriptWithToolCalls) != 1 {
		t.Fatalf("expected 1 transcript entry, got %d", len(envelope.Call.TranscriptWithToolCalls))
	}
	inv := envelope.Call.TranscriptWithToolCalls[0].ToolCallInvocation
	if inv == nil || inv.Name != "add_to_order" {
		t.Errorf("tool call invocation not bound: %+v", inv)
	}
}
