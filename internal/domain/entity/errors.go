package entity

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that no stored summary exists for the requested
// document ID. Repositories return it so handlers can map lookups to 404
// without inspecting driver errors.
var ErrNotFound = errors.New("entity not found")

// ValidationError reports a field that failed domain validation. It carries
// the offending field name so HTTP handlers can surface it in error responses.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
