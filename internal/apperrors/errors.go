package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the user is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected infrastructure failure. It is never
// conflated with a business rejection.
var ErrInternal = errors.New("internal error")

// Business-rule rejections for transaction creation. The set is closed:
// the transaction service returns exactly one of these (or
// ErrConcurrencyConflict) when it refuses a request, and the HTTP layer
// maps each onto a status code.
var (
	// ErrInvalidAmount indicates the amount is zero, negative, or not representable.
	ErrInvalidAmount = errors.New("transaction amount must be a positive decimal")

	// ErrAccountNotFound indicates a referenced account does not exist in the company.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountInactive indicates a referenced account has been deactivated.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrCrossCompanyAccount indicates a referenced account belongs to another company.
	ErrCrossCompanyAccount = errors.New("account belongs to a different company")

	// ErrInsufficientFunds indicates the debit would overdraw an account
	// whose policy forbids a negative balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// ErrConcurrencyConflict indicates a conditioned balance write lost the race
// against a concurrent writer and the retry budget is exhausted. Terminal:
// resubmission policy is the caller's decision.
var ErrConcurrencyConflict = errors.New("concurrent modification conflict")

// AppError wraps an underlying error with an HTTP-ish status code and a
// message suitable for surfacing to callers.
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

// NewNotFoundError creates an AppError that matches ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// IsBusinessRejection reports whether err is one of the closed set of
// validator rejections (never retried by the engine).
func IsBusinessRejection(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrAccountInactive) ||
		errors.Is(err, ErrCrossCompanyAccount) ||
		errors.Is(err, ErrInsufficientFunds)
}
