package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrProductExists      = errors.New("product already exists")
	ErrProductNotFound    = errors.New("product not found")
)

// ValidationError reports a single rejected input field. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a *ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
