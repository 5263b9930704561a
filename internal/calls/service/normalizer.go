package service

import (
	"encoding/json"

	"orderline_backend/internal/calls/transport"
)

// NormalizeToolEvents flattens a vendor transcript into a canonical event
// sequence, preserving transcript order. The vendor uses two encodings for
// tool calls and two encodings for their arguments (native object or
// JSON-in-a-string); both are handled here so nothing downstream sees the
// difference. A malformed entry contributes no event instead of aborting the
// whole transcript.
func NormalizeToolEvents(entries []transport.TranscriptEntry) []transport.ToolEvent {
	events := make([]transport.ToolEvent, 0, len(entries))

	for _, entry := range entries {
		if inv := entry.ToolCallInvocation; inv != nil && inv.Name != "" {
			if args, ok := parseToolArgs(inv.Arguments); ok {
				events = append(events, transport.ToolEvent{Name: inv.Name, Args: args})
			}
			continue
		}

		for _, call := range entry.ToolCalls {
			name := call.FunctionName
			if name == "" && call.Function != nil {
				name = call.Function.Name
			}
			if name == "" {
				continue
			}

			// The flat and nested fields mix freely: a flat function_name
			// can carry its arguments under function.arguments. Fall back
			// to the nested arguments whenever the flat ones are absent or
			// unusable.
			args, ok := parseToolArgs(call.Arguments)
			if (!ok || len(call.Arguments) == 0) && call.Function != nil && len(call.Function.Arguments) > 0 {
				args, ok = parseToolArgs(call.Function.Arguments)
			}
			if ok {
				events = append(events, transport.ToolEvent{Name: name, Args: args})
			}
		}
	}

	return events
}

// parseToolArgs decodes tool arguments that arrive either as a native JSON
// object or as a JSON object encoded inside a JSON string. Returns false for
// payloads that are neither.
func parseToolArgs(raw json.RawMessage) (map[string]any, bool) {
	if len(raw) == 0 {
		return map[string]any{}, true
	}

	var args map[string]any
	if err := json.Unmarshal(raw, &args); err == nil {
		return args, true
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(encoded), &args); err != nil {
		return nil, false
	}
	return args, true
}
