package workflow

import (
	"fmt"
	"strings"
)

// FormatError marks a document that could not be parsed at all.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("workflow %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ValidationError carries every schema violation found in a document, not
// just the first one.
type ValidationError struct {
	Path       string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("workflow %s: %d validation error(s): %s",
		e.Path, len(e.Violations), strings.Join(e.Violations, "; "))
}

// NotFoundError marks a lookup of an unknown step id.
type NotFoundError struct {
	StepID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("step not found: %s", e.StepID)
}
