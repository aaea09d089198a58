package services

import (
	"errors"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrNotVerified          = errors.New("account not verified")
	ErrAlreadyVerified      = errors.New("account already verified")
	ErrUnauthenticated      = errors.New("invalid or expired token")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrVaultRecordNotFound  = errors.New("vault record not found")
)

// ValidationError reports malformed or missing input. It is always safe to
// show to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
