package service

import (
	"encoding/json"
	"testing"

	"orderline_backend/internal/calls/transport"
)

func TestNormalizeHandlesEmbeddedInvocationEncoding(t *testing.T) {
	entries := []transport.TranscriptEntry{
		{Role: "agent", Content: "Sure, one pizza."},
		{ToolCallInvocation: &transport.ToolCallInvocation{
			Name:      "add_to_order",
			Arguments: json.RawMessage(`"{\"item_name\":\"Cheese Pizza\",\"quantity\":2}"`),
		}},
	}

	events := NormalizeToolEvents(entries)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Name != "add_to_order" {
		t.Errorf("expected add_to_order, got %q", events[0].Name)
	}
	if events[0].Args["item_name"] != "Cheese Pizza" {
		t.Errorf("string-encoded arguments not decoded: %+v", events[0].Args)
	}
	if events[0].Args["quantity"] != float64(2) {
		t.Errorf("expected quantity 2, got %v", events[0].Args["quantity"])
	}
}

func TestNormalizeHandlesToolCallsArrayEncodings(t *testing.T) {
	entries := []transport.TranscriptEntry{
		{ToolCalls: []transport.ToolCall{
			{FunctionName: "set_order_type", Arguments: json.RawMessage(`{"order_type":"delivery"}`)},
			{Function: &transport.ToolFunction{
				Name:      "set_customer_info",
				Arguments: json.RawMessage(`"{\"name\":\"Sam\"}"`),
			}},
		}},
	}

	events := NormalizeToolEvents(entries)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Name != "set_order_type" || events[0].Args["order_type"] != "delivery" {
		t.Errorf("flat encoding mishandled: %+v", events[0])
	}
	if events[1].Name != "set_customer_info" || events[1].Args["name"] != "Sam" {
		t.Errorf("nested encoding mishandled: %+v", events[1])
	}
}

func TestNormalizeHandlesFlatNameWithNestedArguments(t *testing.T) {
	entries := []transport.TranscriptEntry{
		{ToolCalls: []transport.ToolCall{
			{
				FunctionName: "add_to_order",
				Function: &transport.ToolFunction{
					Arguments: json.RawMessage(`"{\"item_name\":\"Pad Thai\",\"quantity\":1}"`),
				},
			},
		}},
	}

	events := NormalizeToolEvents(entries)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Name != "add_to_order" {
		t.Errorf("expected add_to_order, got %q", events[0].Name)
	}
	if events[0].Args["item_name"] != "Pad Thai" {
		t.Errorf("nested arguments lost for flat-named call: %+v", events[0].Args)
	}
}

func TestNormalizePreservesTranscriptOrderAcrossEncodings(t *testing.T) {
	entries := []transport.TranscriptEntry{
		{ToolCallInvocation: &transport.ToolCallInvocation{
			Name: "add_to_order", Arguments: json.RawMessage(`{"item_name":"Soup"}`),
		}},
		{ToolCalls: []transport.ToolCall{
			{FunctionName: "remove_from_order", Arguments: json.RawMessage(`{"item_name":"Soup"}`)},
		}},
		{ToolCallInvocation: &transport.ToolCallInvocation{
			Name: "add_to_order", Arguments: json.RawMessage(`{"item_name":"Salad"}`),
		}},
	}

	events := NormalizeToolEvents(entries)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	want := []string{"add_to_order", "remove_from_order", "add_to_order"}
	for i, name := range want {
		if events[i].Name != name {
			t.Errorf("event %d: expected %s, got %s", i, name, events[i].Name)
		}
	}
}

func TestNormalizeSkipsMalformedEntriesOnly(t *testing.T) {
	entries := []transport.TranscriptEntry{
		{ToolCallInvocation: &transport.ToolCallInvocation{
			Name: "add_to_order", Arguments: json.RawMessage(`"{not json at all"`),
		}},
		{ToolCallInvocation: &transport.ToolCallInvocation{
			Name: "add_to_order", Arguments: json.RawMessage(`{"item_name":"Burger"}`),
		}},
	}

	events := NormalizeToolEvents(entries)
	if len(events) != 1 {
		t.Fatalf("expected malformed entry skipped, got %d events", len(events))
	}
	if events[0].Args["item_name"] != "Burger" {
		t.Errorf("surviving event wrong: %+v", events[0])
	}
}

func TestNormalizeIgnoresPlainConversationTurns(t *testing.T) {
	entries := []transport.TranscriptEntry{
		{Role: "user", Content: "Hi, I'd like to order."},
		{Role: "agent", Content: "Of course!"},
	}
	if events := NormalizeToolEvents(entries); len(events) != 0 {
		t.Fatalf("expected no events from plain turns, got %d", len(events))
	}
}
