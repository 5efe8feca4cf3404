package gemini

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyPrompt is returned when the prompt is empty or whitespace-only.
// It is rejected before the CLI process is spawned.
var ErrEmptyPrompt = errors.New("prompt must be a non-empty, non-whitespace string")

// ProcessError represents a process-level error.
type ProcessError struct {
	Cause   error
	Message string
}

func (e *ProcessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("process error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("process error: %s", e.Message)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// CLINotFoundError indicates the Gemini CLI binary was not found.
type CLINotFoundError struct {
	Cause error
	Path  string
}

func (e *CLINotFoundError) Error() string {
	return fmt.Sprintf("CLI binary not found at %q: %v", e.Path, e.Cause)
}

func (e *CLINotFoundError) Unwrap() error {
	return e.Cause
}

// TimeoutError indicates the invocation exceeded its deadline. The CLI
// process has already been killed and reaped when this is returned.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("gemini command timed out after %d seconds", int(e.After.Seconds()))
}
