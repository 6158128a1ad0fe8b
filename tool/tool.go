// Package tool implements the function / tool calling subsystem that lets the
// conversational backend invoke structured capabilities (lookups, logging,
// scheduling stubs) with schema validated arguments, consistent error handling
// and descriptions exposed to the model.
package tool

import (
	"context"
	"fmt"
)

// Tool defines the interface for a named capability the backend may request
// mid-conversation.
//
// Tools are registered in a process-wide Registry at startup and resolved by
// name when a function-call event arrives. Implementations should:
//   - Provide clear, descriptive names matching the schema advertised to the model
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be safe for concurrent use; a single Tool instance serves every call
type Tool interface {
	// Name returns the unique identifier for this tool. The name is the
	// routing key between the backend's function call and the implementation.
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the model to help it decide when to invoke the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	Parameters() map[string]any

	// Call executes the tool with structured arguments. The returned value
	// must be JSON-serializable; it is wrapped as a function_call_output and
	// sent back to the backend.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Schema is the wire representation of a tool declaration as carried in a
// backend session.update. The agent registry joins these with the synthesized
// transfer tool at session-initialization time.
type Schema struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// SchemaOf builds the wire declaration for a tool.
func SchemaOf(t Tool) Schema {
	return Schema{
		Type:        "function",
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
