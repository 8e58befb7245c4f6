package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...interface{}) *DomainError {
	return NewDomainError("VALIDATION_ERROR", fmt.Sprintf(format, args...))
}

// NewConflictError creates a conflict error with a formatted message
func NewConflictError(format string, args ...interface{}) *DomainError {
	return NewDomainError("CONFLICT", fmt.Sprintf(format, args...))
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) *DomainError {
	return NewDomainError("NOT_FOUND", fmt.Sprintf(format, args...))
}

// NewForbiddenError creates a forbidden error with a formatted message
func NewForbiddenError(format string, args ...interface{}) *DomainError {
	return NewDomainError("FORBIDDEN", fmt.Sprintf(format, args...))
}

// NewInvalidStateError creates an invalid-state error with a formatted message
func NewInvalidStateError(format string, args ...interface{}) *DomainError {
	return NewDomainError("INVALID_STATE", fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("CONFLICT", "Resource already exists")
	ErrInvalidInput        = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// IsDomainError reports whether err is a DomainError and returns it
func IsDomainError(err error) (*DomainError, bool) {
	de, ok := err.(*DomainError)
	return de, ok
}
