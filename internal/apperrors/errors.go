package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidTransition indicates that a workflow operation was attempted from an incompatible state.
var ErrInvalidTransition = errors.New("invalid workflow transition")

// ErrAlreadyLinked indicates that a receipt is already linked to another reimbursement.
var ErrAlreadyLinked = errors.New("receipt already linked to a reimbursement")

// ErrNotLinked indicates that a receipt is not linked to the given reimbursement.
var ErrNotLinked = errors.New("receipt not linked to this reimbursement")

// AppError wraps an underlying error with an application-level code and message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
