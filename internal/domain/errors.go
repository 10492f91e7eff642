// Package domain defines the data product descriptor model, operation
// results, and errors shared across the provisioner.
package domain

import (
	"fmt"
	"strings"
)

// ValidationError indicates a malformed descriptor or a violated structural
// precondition. It carries one human-readable problem per entry and is never
// retried.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string { return strings.Join(e.Problems, "; ") }

// ErrValidation creates a ValidationError with a single formatted problem.
func ErrValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Problems: []string{fmt.Sprintf(format, args...)}}
}

// WrapValidation prepends a context problem to an existing ValidationError.
func WrapValidation(context string, err *ValidationError) *ValidationError {
	return &ValidationError{Problems: append([]string{context}, err.Problems...)}
}

// RequestValidationError indicates missing or invalid caller-supplied
// parameters. It carries structured problem/solution hints for the caller.
type RequestValidationError struct {
	UserMessage string
	Problems    []string
	Solutions   []string
}

func (e *RequestValidationError) Error() string { return e.UserMessage }

// ErrRequestValidation creates a RequestValidationError whose user message
// doubles as the single problem entry.
func ErrRequestValidation(message string, solutions ...string) *RequestValidationError {
	return &RequestValidationError{
		UserMessage: message,
		Problems:    []string{message},
		Solutions:   solutions,
	}
}

// NotFoundError indicates a remote resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}
