package apperrors

import "strings"

// ValidationFailedError signals that a reimbursement submission was blocked
// by compliance errors. It carries the individual error messages so callers
// can surface them to the user.
type ValidationFailedError struct {
	Messages []string
}

func (e *ValidationFailedError) Error() string {
	return "submission blocked by compliance errors: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrValidation
}

// NewValidationFailedError creates a ValidationFailedError from messages.
func NewValidationFailedError(messages []string) *ValidationFailedError {
	return &ValidationFailedError{Messages: messages}
}
