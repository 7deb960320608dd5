package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal server error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream failure")
)

// AppError pairs an error kind with the message shown to clients.
// Details and Err stay server-side.
type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
	// Status overrides the kind's default HTTP status when non-zero.
	Status int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.BaseError, e.Err}
	}
	return []error{e.BaseError}
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

// NewNotFound uses msg verbatim as the client message.
func NewNotFound(msg, details string) *AppError {
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

func NewConflict(msg, details string) *AppError {
	return NewAppError(ErrConflict, msg, details, nil)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "Server Error", details, err)
}

func NewUnauthorized(msg string, err error) *AppError {
	return NewAppError(ErrUnauthorized, msg, msg, err)
}

func NewPermissionDenied(msg string) *AppError {
	return NewAppError(ErrPermission, msg, msg, nil)
}

func NewUpstream(msg, details string, err error) *AppError {
	return NewAppError(ErrUpstream, msg, details, err)
}

// WithStatus pins the HTTP status of e.
func (e *AppError) WithStatus(code int) *AppError {
	e.Status = code
	return e
}

// ToHTTPStatus maps an error kind to a status code. Not-found and conflict
// conditions answer 400 rather than 404/409 unless the error pins its own
// status; existing clients depend on it.
func ToHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrUpstream):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrPermission):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Server Error"
}

func (e *AppError) ToJSON() gin.H {
	return gin.H{"msg": e.Message}
}
