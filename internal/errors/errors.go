// Package errors defines the error taxonomy shared by the storage layer,
// the facade and the HTTP shell. Storage and the facade return these
// kinds; the transport layer maps them to protocol status codes.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the error kind. Typed errors below wrap one
// of these so callers can branch with errors.Is or the Is* helpers.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// NotFoundError reports that an entity reference did not resolve.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError constructs a NotFoundError for the given entity kind.
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// ValidationError reports a field-level or cross-entity rule violation.
// It is always recoverable by the caller correcting its input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError constructs a ValidationError naming the offending field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// RequiredError is a ValidationError for a missing required field.
func RequiredError(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

// ConflictError reports an attempt to create a record whose identity
// already exists. Under correct id generation this indicates an internal
// invariant violation rather than bad caller input.
type ConflictError struct {
	Kind string
	ID   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.ID)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError constructs a ConflictError for the given entity kind.
func NewConflictError(kind, id string) *ConflictError {
	return &ConflictError{Kind: kind, ID: id}
}

// Forbidden wraps ErrForbidden with a caller-facing reason.
func Forbidden(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrForbidden)
}

// Unauthorized wraps ErrUnauthorized with a caller-facing reason.
func Unauthorized(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrUnauthorized)
}

// IsNotFound reports whether err is (or wraps) a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidationError reports whether err is (or wraps) a validation error.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsConflict reports whether err is (or wraps) a conflict error.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsForbidden reports whether err is (or wraps) a forbidden error.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

// IsUnauthorized reports whether err is (or wraps) an unauthorized error.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
