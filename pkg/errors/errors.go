package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Violation describes a single field that failed validation
type Violation struct {
	Field   string
	Message string
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Violations []Violation
}

// NewValidationError creates a new validation error
func NewValidationError(violations ...Violation) *ValidationError {
	return &ValidationError{
		Violations: violations,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}

	messages := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		messages[i] = fmt.Sprintf("%s %s", v.Field, v.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, ", "))
}

// HasField reports whether any violation concerns the given field
func (e *ValidationError) HasField(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// UniqueViolationError is returned when an identity field already belongs to a stored record
type UniqueViolationError struct {
	Field string
	Value string
}

// NewUniqueViolationError creates a new unique violation error
func NewUniqueViolationError(field, value string) *UniqueViolationError {
	return &UniqueViolationError{
		Field: field,
		Value: value,
	}
}

// Error implements the error interface
func (e *UniqueViolationError) Error() string {
	label := e.Field
	if label == "cpf" {
		label = "CPF"
	}
	return fmt.Sprintf("The %s %s already exists in the database.", label, e.Value)
}

// HTTPStatus returns the HTTP status for this error
func (e *UniqueViolationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a lookup that matched no stored record
type NotFoundError struct {
	Entity     string
	Identifier any
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(entity string, identifier any) *NotFoundError {
	return &NotFoundError{
		Entity:     entity,
		Identifier: identifier,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Entity %s not found with identifier %v", e.Entity, e.Identifier)
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser is implemented by errors that map onto an HTTP status
type HTTPStatuser interface {
	HTTPStatus() int
}
