package apperr

import (
	"errors"
	"net/http"
)

// AppError carries a machine-readable code alongside the message
type AppError struct {
	Code    string
	Message string
	Origin  error // underlying cause, if any
}

func (e *AppError) Error() string {
	if e.Origin != nil {
		return e.Message + ": " + e.Origin.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Origin
}

// Error codes
const (
	ErrNotFound         = "NOT_FOUND"
	ErrDuplicate        = "DUPLICATE"
	ErrInvalidInput     = "INVALID_INPUT"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrInvalidToken     = "INVALID_TOKEN"
	ErrAlreadyAwarded   = "ALREADY_AWARDED"
	ErrTooManyProviders = "TOO_MANY_PROVIDERS"
)

func New(code, message string, origin error) *AppError {
	return &AppError{Code: code, Message: message, Origin: origin}
}

func NotFound(what string) *AppError {
	return &AppError{Code: ErrNotFound, Message: what + " not found"}
}

func Forbidden(reason string) *AppError {
	return &AppError{Code: ErrForbidden, Message: "Forbidden: " + reason}
}

func InvalidInput(message string) *AppError {
	return &AppError{Code: ErrInvalidInput, Message: message}
}

// Code returns the code of the first AppError in err's chain, or "" if none
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code
func Is(err error, code string) bool {
	return err != nil && Code(err) == code
}

// HTTPStatus maps an error to the status code handlers should respond with
func HTTPStatus(err error) int {
	switch Code(err) {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidToken:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrDuplicate, ErrAlreadyAwarded, ErrTooManyProviders:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
