// Package domain contains the core business entities and interfaces for the
// parking marketplace.
package domain

import "errors"

// Domain errors represent business rule violations and collaborator
// failures. Handlers map these to HTTP statuses.
var (
	// ErrValidation is returned for malformed input, rejected before any
	// side effect.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for duplicate or contradictory state
	// transitions.
	ErrConflict = errors.New("conflict")

	// ErrUnsupportedMethod is returned when the storage schema rejects a
	// payment method tag (closed enum on the pagos table).
	ErrUnsupportedMethod = errors.New("unsupported payment method")

	// ErrProvider is returned when a payment gateway call fails.
	ErrProvider = errors.New("payment provider error")

	// ErrStorage is returned when an entity store call fails.
	ErrStorage = errors.New("storage error")

	// ErrUnauthorized is returned when the request lacks a valid identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the identity lacks the required role or
	// ownership.
	ErrForbidden = errors.New("forbidden")
)

// DomainError wraps a sentinel error with additional context.
type DomainError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap allows errors.Is and errors.As to work with DomainError.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a DomainError with the given sentinel, message and code.
func NewError(err error, message, code string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}
