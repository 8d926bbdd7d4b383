package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by OnSubmit when the draft is blank.
	// Nothing changes; adapters treat it as a silent no-op.
	ErrEmptyInput = errors.New("draft text is empty")
)

// ServiceError wraps errors from the controller with the operation that failed.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_controller", "submit")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task controller %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task controller %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// Known sentinel errors are returned directly without wrapping.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEmptyInput) {
		return ErrEmptyInput
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
