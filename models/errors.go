package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeReferrerMissing = "REFERRER_MISSING"
	ErrCodeInvalidReferrer = "INVALID_REFERRER"
	ErrCodeFetchFailed     = "FETCH_FAILED"
	ErrCodeUpstreamStatus  = "UPSTREAM_STATUS"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DerefError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type DerefError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *DerefError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DerefError) Unwrap() error {
	return e.Err
}

// NewDerefError creates a new DerefError.
func NewDerefError(code, message string, err error) *DerefError {
	return &DerefError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *DerefError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
