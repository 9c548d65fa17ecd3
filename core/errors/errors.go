package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorCode string

const (
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"

	// Scheduling
	ErrValidation                ErrorCode = "VALIDATION_ERROR"
	ErrCreatorBusy               ErrorCode = "CREATOR_BUSY"
	ErrInvalidTransition         ErrorCode = "INVALID_TRANSITION"
	ErrPersistence               ErrorCode = "PERSISTENCE_ERROR"
	ErrCalendarAccessUnavailable ErrorCode = "CALENDAR_ACCESS_UNAVAILABLE"
	ErrCalendarTransport         ErrorCode = "CALENDAR_TRANSPORT_ERROR"
)

// AppError is the error type returned by services. Controllers translate Code
// into an HTTP status.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrInternalServer when there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr != nil {
		return appErr.Code
	}
	return ErrInternalServer
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// IsValidation reports whether err belongs to the validation class: rejected
// input that never reached any I/O.
func IsValidation(err error) bool {
	switch CodeOf(err) {
	case ErrValidation, ErrCreatorBusy, ErrInvalidInput, ErrInvalidRequestData:
		return true
	}
	return false
}
