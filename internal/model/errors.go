package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("resource not found")
)

// ValidationError reports an invariant violation. It is caller-fixable.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) work for wrapped validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports that no visible (active) record exists for the given ID.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

// NewNotFoundError creates a NotFoundError for the given resource and ID.
func NewNotFoundError(resource string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) work for wrapped not found errors.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
