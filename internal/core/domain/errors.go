package domain

import (
	"errors"
	"strings"
)

var (
	ErrUserExists         = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrAddressNotFound    = errors.New("address not found")
	ErrProductNotFound    = errors.New("product not found")
)

// ValidationError reports input that failed field-level checks.
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
