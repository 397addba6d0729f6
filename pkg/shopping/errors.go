package shopping

import "errors"

// ErrSessionNotFound is returned for unknown, closed or expired sessions.
var ErrSessionNotFound = errors.New("shopping session not found")

// ErrEntryNotFound is returned when removing an item that is not on the list.
var ErrEntryNotFound = errors.New("item is not on the shopping list")

// validationError communicates rule violations back to HTTP handlers.
type validationError struct {
	message string
}

func (e validationError) Error() string { return e.message }

func newValidationError(msg string) error {
	return validationError{message: msg}
}

// IsValidation helps callers distinguish between bad input and infrastructure failures.
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}
