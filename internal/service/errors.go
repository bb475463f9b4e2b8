package service

import "errors"

// ErrStatusFailed is returned when the status view cannot be computed.
var ErrStatusFailed = errors.New("failed to compute status")

// ValidationError reports a request that failed input validation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
