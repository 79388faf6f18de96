package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEventNotFound is returned when an event row does not exist
	ErrEventNotFound = errors.New("event not found")

	// ErrInvalidTransition is returned when a status change is not allowed from the current status
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrLedgerRecordNotFound is returned when the ledger has no record for an id
	ErrLedgerRecordNotFound = errors.New("ledger record not found")

	// ErrOperationMismatch is returned when a signed operation does not match the prepared one
	ErrOperationMismatch = errors.New("signed operation does not match prepared operation")

	// ErrLedgerRejected is returned when the ledger mined the signed operation but rejected it
	ErrLedgerRejected = errors.New("ledger rejected the operation")

	// ErrContentHashMismatch is returned when supplied bytes do not hash to the supplied content hash
	ErrContentHashMismatch = errors.New("content hash mismatch")
)

// ValidationError is returned when caller input is malformed.
// It is never retried and is always raised before any storage is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError attributes a failure to a provider and operation
type StorageError struct {
	Provider  ProviderName
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError wraps cause into a StorageError. A cause that already is a StorageError
// or a ValidationError is returned as is.
func NewStorageError(provider ProviderName, operation string, cause error) error {
	if cause == nil {
		return nil
	}
	var se *StorageError
	if errors.As(cause, &se) {
		return cause
	}
	if IsValidationError(cause) {
		return cause
	}
	return &StorageError{Provider: provider, Operation: operation, Cause: cause}
}

// IsStorageError reports whether err wraps a StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// AsStorageError extracts the StorageError from err, if any
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
