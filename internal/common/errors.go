// Package common defines shared constants and sentinel errors used across
// resumehub layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Input and account lifecycle errors.
	ErrValidation     = errors.New("validation error")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnknownEmail   = errors.New("unknown email")
	ErrBadCredentials = errors.New("bad credentials")
	ErrNoPendingCode  = errors.New("no pending verification code")
	ErrCodeMismatch   = errors.New("verification code mismatch")

	// Authorization errors (role, ownership or shared secret mismatch).
	ErrForbidden = errors.New("forbidden")

	// Token errors.
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// NewValidationError wraps err so that it matches ErrValidation while keeping
// the original (usually validation.Errors) reachable through errors.As.
func NewValidationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
