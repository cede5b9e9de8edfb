package tool

import (
	"context"
)

// Tool defines the interface that all host tools implement
type Tool interface {
	// Name returns the unique identifier for this tool
	Name() string

	// Description returns a brief description of what this tool does
	Description() string

	// InputSchema returns the JSON schema for the tool's arguments
	InputSchema() map[string]any

	// Execute runs the tool with the given decoded arguments
	Execute(ctx context.Context, args map[string]any) (*Result, error)
}

// Result is the outcome of one tool invocation. A handler-level fault
// sets Success to false; the error text is surfaced to the model as
// content so it can adapt, never as a transport failure.
type Result struct {
	Success bool
	Output  string
	Error   string
}

// Ok wraps output text in a successful result
func Ok(output string) *Result {
	return &Result{Success: true, Output: output}
}

// Fail wraps an error message in a failed result
func Fail(message string) *Result {
	return &Result{Success: false, Error: message}
}
