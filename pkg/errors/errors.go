package errors

import "fmt"

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeLimitExceeded     = "LIMIT_EXCEEDED"
)

// LimitExceededError reports which quota period was exhausted so the caller
// can surface a precise message. Not retryable until the period rolls over.
type LimitExceededError struct {
	Period string
	Used   int64
	Limit  int64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s: %s limit reached (%d/%d)", ErrCodeLimitExceeded, e.Period, e.Used, e.Limit)
}

func NewLimitExceeded(period string, used, limit int64) *LimitExceededError {
	return &LimitExceededError{
		Period: period,
		Used:   used,
		Limit:  limit,
	}
}

// Code returns the code carried by an AppError or LimitExceededError, and
// INTERNAL_ERROR for anything else.
func Code(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	if _, ok := err.(*LimitExceededError); ok {
		return ErrCodeLimitExceeded
	}
	return ErrCodeInternalError
}
