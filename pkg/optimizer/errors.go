package optimizer

import "fmt"

// ValidationError rejects a malformed request before any work is done.
type ValidationError struct {
	// Message is the client-facing rejection text.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// errMissingPrompt rejects requests without a usable prompt field.
func errMissingPrompt() error {
	return &ValidationError{Message: "Missing 'prompt' field in request body."}
}

// errEmptyPrompt rejects prompts that are only whitespace.
func errEmptyPrompt() error {
	return &ValidationError{Message: "Prompt cannot be empty."}
}

// PipelineError represents an internal failure during optimization.
type PipelineError struct {
	// Stage is the pipeline stage that failed.
	Stage string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %q failed: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}
