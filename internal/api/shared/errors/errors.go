// Package errors defines the error body of the API envelope and maps domain errors onto it.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/feral-file/ff-events/internal/domain"
)

// ErrorCode is the machine readable code of an APIError
type ErrorCode string

const (
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeConflict         ErrorCode = "conflict"
	ErrCodeLedgerRejected   ErrorCode = "ledger_rejected"

	ErrCodeInternalError      ErrorCode = "internal_error"
	ErrCodeStorageUnavailable ErrorCode = "storage_unavailable"
)

// APIError is the error member of a failed envelope
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

func newAPIError(code ErrorCode, message string, details []string) *APIError {
	return &APIError{Code: code, Message: message, Details: strings.Join(details, ", ")}
}

func NewBadRequestError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeBadRequest, message, details)
}

func NewNotFoundError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeNotFound, message, details)
}

func NewValidationError(details ...string) *APIError {
	return newAPIError(ErrCodeValidationFailed, "Validation failed", details)
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeUnauthorized, message, details)
}

func NewInternalError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeInternalError, message, details)
}

// sentinelMapping maps a domain sentinel to a status. withCause copies the error text into Details.
type sentinelMapping struct {
	target    error
	status    int
	code      ErrorCode
	message   string
	withCause bool
}

// sentinels is checked in order, before the storage error fallback,
// so a ledger rejection wrapped in a StorageError still maps to 422
var sentinels = []sentinelMapping{
	{domain.ErrEventNotFound, http.StatusNotFound, ErrCodeNotFound, "Event not found", false},
	{domain.ErrLedgerRejected, http.StatusUnprocessableEntity, ErrCodeLedgerRejected, "Ledger rejected the operation", true},
	{domain.ErrInvalidTransition, http.StatusConflict, ErrCodeConflict, "Event is not in a state that allows this operation", true},
	{domain.ErrOperationMismatch, http.StatusConflict, ErrCodeConflict, "Event is not in a state that allows this operation", true},
	{domain.ErrContentHashMismatch, http.StatusBadRequest, ErrCodeBadRequest, "Content hash mismatch", false},
}

// FromDomainError maps an orchestration error to its HTTP status and API error.
// Storage errors only expose the failing provider, never the underlying cause.
func FromDomainError(err error) (int, *APIError) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, NewValidationError(ve.Error())
	}

	for _, m := range sentinels {
		if !errors.Is(err, m.target) {
			continue
		}
		apiErr := &APIError{Code: m.code, Message: m.message}
		if m.withCause {
			apiErr.Details = err.Error()
		}
		return m.status, apiErr
	}

	if se, ok := domain.AsStorageError(err); ok {
		return http.StatusServiceUnavailable, &APIError{
			Code:    ErrCodeStorageUnavailable,
			Message: "Storage temporarily unavailable",
			Details: string(se.Provider) + " " + se.Operation,
		}
	}

	return http.StatusInternalServerError, NewInternalError("Internal server error")
}
