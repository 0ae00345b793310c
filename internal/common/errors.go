// Package common defines shared constants and sentinel errors used across
// client and server layers of Bookkeeper. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrStore      = errors.New("store error")

	// Authorization errors.
	ErrNotAuthorized = errors.New("not authorized")

	// Authentication errors. At the transport boundary they all collapse into
	// a single "unauthenticated" response.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrMissingToken    = errors.New("missing token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")

	// Account errors.
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation error")

	ErrorInternal = errors.New("internal error")
)

// IsAuthentication reports whether err is one of the authentication failures.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired)
}

// FieldError describes a single invalid or missing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FieldNames returns the names of the offending fields in order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// storeError wraps an underlying persistence failure.
type storeError struct {
	err error
}

// StoreError wraps err so that errors.Is(result, ErrStore) holds while the
// original error stays reachable through errors.Unwrap.
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	return &storeError{err: err}
}

func (e *storeError) Error() string { return "db error: " + e.err.Error() }

func (e *storeError) Unwrap() error { return e.err }

func (e *storeError) Is(target error) bool { return target == ErrStore }
