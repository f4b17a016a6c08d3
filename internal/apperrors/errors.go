package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested transaction or entity could not be
// found. Cross-organization access is reported with this same error so a
// caller cannot distinguish "does not exist" from "exists in another tenant".
var ErrNotFound = errors.New("transaction not found")

// ErrValidation indicates that input data failed validation checks before any
// store access (malformed smart code, bad date range, empty reversal reason).
var ErrValidation = errors.New("validation error")

// ErrOrgMismatch indicates that a referenced entity or transaction resolves to
// a different organization than the one supplied with the request. The message
// carries the legacy ORG_MISMATCH marker that existing consumers match on by
// substring.
var ErrOrgMismatch = errors.New("ORG_MISMATCH: reference belongs to a different organization")

// ErrImbalanced indicates that a transaction submitted with the balance
// requirement has debit and credit sums differing by more than the tolerance.
var ErrImbalanced = errors.New("transaction is imbalanced: debit and credit totals do not match")

// ErrConflict indicates that the operation conflicts with the current state of
// the transaction (e.g. reversing an already reversed transaction when
// multiple reversals are disabled).
var ErrConflict = errors.New("operation conflicts with current state")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with an HTTP-ish status code and a
// human-readable message.
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

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
