package ledger

import (
	"errors"
	"fmt"
)

// ErrCodeNotFound is returned when no account owns the referral code.
// No mutation has happened when callers see it.
var ErrCodeNotFound = errors.New("referral code not found")

// ErrAccountNotFound is returned when a wallet has no referral account
var ErrAccountNotFound = errors.New("referral account not found")

// ValidationError reports a missing or invalid input field, rejected
// before any mutation
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
