package utils

import (
	"fmt"
	"strings"
)

// AppError wraps an operation, the validation run it belongs to, a
// human-facing message, and the underlying error.
type AppError struct {
	Op    string
	RunID string
	Msg   string
	Err   error
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.RunID != "" {
		fmt.Fprintf(&b, " [run %s]", e.RunID)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError that is not tied to a run.
func NewAppError(op, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Err: err}
}

// NewRunError constructs an AppError for a validation run.
func NewRunError(op, runID, msg string, err error) error {
	return &AppError{Op: op, RunID: runID, Msg: msg, Err: err}
}
