package errors

import (
	"errors"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("user", "abc123")

	expected := `user "abc123" not found`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("expected error to wrap ErrNotFound")
	}

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true")
	}
	if IsValidationError(err) {
		t.Error("IsValidationError should return false for a not-found error")
	}
}

func TestNotFoundError_NoID(t *testing.T) {
	err := NewNotFoundError("place", "")

	expected := "place not found"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("email", "must contain @")

	expected := "email: must contain @"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected error to wrap ErrInvalidInput")
	}

	if !IsValidationError(err) {
		t.Error("IsValidationError should return true")
	}
}

func TestRequiredError(t *testing.T) {
	err := RequiredError("first_name")

	expected := "first_name: is required"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	if !IsValidationError(err) {
		t.Error("IsValidationError should return true for RequiredError")
	}
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("review", "rev1")

	expected := `review "rev1" already exists`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrConflict) {
		t.Error("expected error to wrap ErrConflict")
	}
	if !IsConflict(err) {
		t.Error("IsConflict should return true")
	}
}

func TestForbiddenAndUnauthorized(t *testing.T) {
	if !IsForbidden(Forbidden("admin privileges required")) {
		t.Error("IsForbidden should return true")
	}
	if !IsUnauthorized(Unauthorized("missing token")) {
		t.Error("IsUnauthorized should return true")
	}
}
