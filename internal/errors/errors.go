// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeNotFound indicates a missing input file or referenced column
	TypeNotFound Type = "NOT_FOUND"

	// TypeFormat indicates an unsupported file format or unparseable value
	TypeFormat Type = "FORMAT_ERROR"

	// TypeValidation indicates invalid aggregation input or parameters
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeConversion indicates a failed type coercion
	TypeConversion Type = "CONVERSION_ERROR"

	// TypeIO indicates a read/write failure
	TypeIO Type = "IO_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// ColumnNotFound creates a not found error for a missing table column
func ColumnNotFound(column string) *Error {
	return Newf(TypeNotFound, "column not found: %s", column)
}

// Format creates a format error
func Format(message string) *Error {
	return New(TypeFormat, message)
}

// Formatf creates a formatted format error
func Formatf(format string, args ...interface{}) *Error {
	return Newf(TypeFormat, format, args...)
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(TypeValidation, message)
}

// Conversion creates a conversion error
func Conversion(message string, cause error) *Error {
	return Wrap(TypeConversion, message, cause)
}

// IO creates an I/O error
func IO(message string, cause error) *Error {
	return Wrap(TypeIO, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
