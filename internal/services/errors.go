package services

import "errors"

// ErrValidation marks errors caused by bad client input.
var ErrValidation = errors.New("validation failed")

// ErrWrongPassword is returned by Authenticate for a known user with a
// mismatching password.
var ErrWrongPassword = errors.New("wrong password")

// ValidationError carries a message that is safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}
