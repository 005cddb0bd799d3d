// Package tool implements the function calling subsystem that lets agents
// invoke structured capabilities (catalog lookups, order queries, policy
// search) with schema validated arguments and consistent error handling.
package tool

import (
	"context"
	"fmt"

	"github.com/triagekit/triagekit/internal/util"
)

// Tool defines the interface for extending agent capabilities with external
// functions.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be safe for concurrent use after construction
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool
	// does. It is provided to the model to help it decide when to call the
	// tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	Parameters() map[string]interface{}

	// Call executes the tool with already-parsed arguments.
	Call(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

// Error codes attached to ToolError for uniform downstream handling.
const (
	CodeNotFound     = "TOOL_NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeExecution    = "EXECUTION_ERROR"
	CodeCollaborator = "COLLABORATOR_ERROR"
)

// ValidationError represents parameter validation errors with detailed
// information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution. A ToolError
// is a normal, recoverable outcome of a tool invocation: the runtime feeds
// it back to the issuing agent as a result, never as a turn failure.
type ToolError struct {
	Tool    string      `json:"tool"`              // Name of the tool that failed
	Message string      `json:"message"`           // Error message
	Code    string      `json:"code"`              // Error code for categorization
	Details interface{} `json:"details,omitempty"` // Additional error details
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
