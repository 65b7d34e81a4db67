package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvariantViolation indicates that an operation would break a ledger invariant,
// such as driving the balance below zero.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrConflict indicates that the account was modified concurrently since it was read.
var ErrConflict = errors.New("concurrent modification")

// ErrStoreUnavailable indicates a persistence failure that is not the caller's fault.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrForbidden indicates the caller's capability does not allow the operation.
var ErrForbidden = errors.New("forbidden")

// Specific errors. Each wraps one of the taxonomy sentinels above so handlers
// can branch on either level with errors.Is.
var (
	ErrInvalidType             = fmt.Errorf("%w: invalid adjustment type", ErrValidation)
	ErrMissingReason           = fmt.Errorf("%w: reason is required for adjustments", ErrValidation)
	ErrInvalidAmount           = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrWouldGoNegative         = fmt.Errorf("%w: operation would result in negative balance", ErrInvariantViolation)
	ErrInsufficientCredit      = fmt.Errorf("%w: insufficient available credit", ErrInvariantViolation)
	ErrAccountNotActive        = fmt.Errorf("%w: credit account is not active", ErrInvariantViolation)
	ErrInvalidStatusTransition = fmt.Errorf("%w: invalid status transition", ErrInvariantViolation)
	ErrAccountNotFound         = fmt.Errorf("%w: credit profile not found", ErrNotFound)
	ErrClientNotFound          = fmt.Errorf("%w: client profile not found", ErrNotFound)
)

// AppError carries an HTTP-ish status code alongside the underlying cause.
// It unwraps to the matching taxonomy sentinel so errors.Is keeps working.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the taxonomy sentinel for the code and the original cause.
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel := sentinelForCode(e.Code); sentinel != nil {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func sentinelForCode(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return ErrStoreUnavailable
	default:
		return nil
	}
}
