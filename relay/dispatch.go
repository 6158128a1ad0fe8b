package relay

import (
	"context"
	"encoding/json"

	"github.com/hupe1980/callbridge/realtime"
)

// dispatchTool is the bridge between a backend function call and the
// process-wide capability table.
//
// An unknown tool name is logged and dropped; the model receives no function
// output and must recover on its own. A handler failure is surfaced to the
// model as a structured error output so its function call is not left
// unanswered. Successful results are sent as a function_call_output
// correlated by call id on whichever connection is active at send time (a
// handoff may have swapped it since the call started), followed by a
// resume-generation instruction.
func (s *Session) dispatchTool(ctx context.Context, callID, name string, args map[string]any) {
	t, ok := s.tools.Get(name)
	if !ok {
		s.logger.Warn("unknown tool, dropping function call", "tool", name, "call_id", callID)
		return
	}

	var output string
	result, err := t.Call(ctx, args)
	if err != nil {
		s.logger.Error("tool execution failed", "tool", name, "error", err)
		output = marshalOutput(map[string]any{"error": err.Error()})
	} else {
		output = marshalOutput(result)
	}

	conn, _ := s.active()

	if err := conn.Send(ctx, realtime.FunctionCallOutput(callID, output)); err != nil {
		s.logger.Warn("failed to send function call output", "tool", name, "error", err)
		return
	}
	if err := conn.Send(ctx, realtime.ResponseCreate()); err != nil {
		s.logger.Warn("failed to resume generation", "tool", name, "error", err)
	}
}

// marshalOutput serializes a tool result for the wire. Results that cannot be
// marshaled degrade to their string form rather than dropping the output.
func marshalOutput(result any) string {
	if s, ok := result.(string); ok {
		return s
	}

	data, err := json.Marshal(result)
	if err != nil {
		return `{"error":"unserializable tool result"}`
	}
	return string(data)
}
