package errors

import (
	"fmt"
	"net/http"
)

// AppError is the standard shape for errors on the JSON surface.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // response status, not serialized
	Err        error  `json:"-"` // original cause, for logs, never exposed to clients
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the original cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// Wrap creates an AppError wrapping an existing error.
func Wrap(err error, status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Err:        err,
	}
}

// FromError converts a generic error into an AppError. Anything that is
// not already an AppError becomes a generic internal error preserving
// the original as the cause.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail attaches extra detail. Returns a copy so the predefined
// vars are never mutated.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause attaches the original error. Returns a copy.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// The error vocabulary of the JSON surface. The HTML landing pages
// never use these; their failure text comes from the login service.
var (
	// 400
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request contains invalid syntax or missing parameters.",
		HTTPStatus: http.StatusBadRequest,
	}

	// 401
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Authentication is required.",
		HTTPStatus: http.StatusUnauthorized,
	}
	ErrTokenMissing = &AppError{
		Code:       "TOKEN_MISSING",
		Message:    "No authentication token was provided.",
		HTTPStatus: http.StatusUnauthorized,
	}
	ErrTokenInvalid = &AppError{
		Code:       "TOKEN_INVALID",
		Message:    "The authentication token is invalid.",
		HTTPStatus: http.StatusUnauthorized,
	}
	ErrSessionExpired = &AppError{
		Code:       "SESSION_EXPIRED",
		Message:    "The session has expired, please sign in again.",
		HTTPStatus: http.StatusUnauthorized,
	}

	// 404
	ErrResearcherNotFound = &AppError{
		Code:       "RESEARCHER_NOT_FOUND",
		Message:    "No researcher is registered with that ORCID iD.",
		HTTPStatus: http.StatusNotFound,
	}
	ErrSessionNotFound = &AppError{
		Code:       "SESSION_NOT_FOUND",
		Message:    "The session does not exist or was already revoked.",
		HTTPStatus: http.StatusNotFound,
	}
	ErrRouteNotFound = &AppError{
		Code:       "ROUTE_NOT_FOUND",
		Message:    "The requested route does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	// 405
	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "The HTTP method is not allowed for this resource.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	// 429
	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests, try again later.",
		HTTPStatus: http.StatusTooManyRequests,
	}

	// 500
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "An internal server error occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
