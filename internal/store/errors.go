package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned for operations on ids that don't exist
	// (or, where an operation requires it, that are deactivated).
	ErrNotFound = errors.New("not found")

	// ErrAlreadyComposed is returned when adding a component to an
	// outfit it is already actively composed with. Callers may treat it
	// as a no-op.
	ErrAlreadyComposed = errors.New("component already composed with outfit")
)

// ValidationError reports a rejected field so callers can surface it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure
// on the given table.column. The SQLite driver exposes this only
// through the error text.
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
