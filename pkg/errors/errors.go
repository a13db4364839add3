package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// Is matches any AppError carrying the same code, so callers can compare
// against the sentinel values below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// StatusCode maps the error code onto an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotAuthenticated, ErrUserNotFound:
		return http.StatusUnauthorized
	case ErrNoOrgAccess, ErrMissingPermission:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrInvalidTransition, ErrConflict:
		return http.StatusConflict
	case ErrLimitExceeded:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrNotAuthenticated
	ErrUserNotFound
	ErrNoOrgAccess
	ErrMissingPermission
	ErrInvalidTransition
	ErrConflict
	ErrLimitExceeded
)

// Sentinels for errors.Is checks. Only the code is compared.
var (
	NotAuthenticatedErr  = &AppError{Code: ErrNotAuthenticated, Message: "not authenticated"}
	UserNotFoundErr      = &AppError{Code: ErrUserNotFound, Message: "user not found"}
	NoOrgAccessErr       = &AppError{Code: ErrNoOrgAccess, Message: "no access to this organization"}
	MissingPermissionErr = &AppError{Code: ErrMissingPermission, Message: "missing permission"}
	NotFoundErr          = &AppError{Code: ErrNotFound, Message: "not found"}
	InvalidTransitionErr = &AppError{Code: ErrInvalidTransition, Message: "invalid status transition"}
	ConflictErr          = &AppError{Code: ErrConflict, Message: "conflict"}
	LimitExceededErr     = &AppError{Code: ErrLimitExceeded, Message: "plan limit exceeded"}
	BadRequestErr        = &AppError{Code: ErrBadRequest, Message: "bad request"}
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string) *AppError {
	return NewNotFound(resource, nil)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func NotAuthenticated() *AppError {
	return &AppError{Code: ErrNotAuthenticated, Message: "Not authenticated"}
}

func UserNotFound() *AppError {
	return &AppError{Code: ErrUserNotFound, Message: "User not found"}
}

func NoOrgAccess() *AppError {
	return &AppError{Code: ErrNoOrgAccess, Message: "No access to this organization"}
}

func MissingPermission(permission string) *AppError {
	return &AppError{
		Code:    ErrMissingPermission,
		Message: fmt.Sprintf("Missing permission: %s", permission),
	}
}

func InvalidTransition(entity, from, to string) *AppError {
	return &AppError{
		Code:    ErrInvalidTransition,
		Message: fmt.Sprintf("%s cannot move from %s to %s", entity, from, to),
	}
}

func Conflict(message string) *AppError {
	return &AppError{Code: ErrConflict, Message: message}
}

func LimitExceeded(message string) *AppError {
	return &AppError{Code: ErrLimitExceeded, Message: message}
}

// As is a thin re-export so callers don't need both errors packages.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
