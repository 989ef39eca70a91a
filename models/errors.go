// ABOUTME: Error taxonomy shared across the store, operations, and sync engine
// ABOUTME: Defines ErrNotFound, ValidationError, and StorageError
package models

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a referenced entity does not exist in the local store.
var ErrNotFound = errors.New("not found")

// ValidationError indicates a domain operation precondition failed. It is
// raised before any transaction opens, so no store mutation has occurred.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError indicates the local store could not complete a read or write.
// Callers may retry; the failure is never silently absorbed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
