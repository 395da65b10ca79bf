// Package errors provides application-level error types and utilities.
// Every failure that crosses a layer boundary is an *AppError tagged with an
// ErrorType, so callers branch on the tag instead of the message.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "validation_error"
	ErrorTypeNotFound         ErrorType = "not_found"
	ErrorTypeConflict         ErrorType = "conflict"
	ErrorTypeImmutableField   ErrorType = "immutable_field"
	ErrorTypePriceUnavailable ErrorType = "price_unavailable"
	ErrorTypeUserNotFound     ErrorType = "user_not_found"
	ErrorTypeInternal         ErrorType = "internal_error"
	ErrorTypeBadRequest       ErrorType = "bad_request"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`

	cause error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause, if one was attached with WithCause.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches the low-level error that triggered e. The cause is never
// rendered to API clients.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details)
}

// NewImmutableFieldError reports an attempt to change a field that is frozen
// once a deposit has been approved.
func NewImmutableFieldError(field string, details ...string) *AppError {
	return newAppError(ErrorTypeImmutableField, http.StatusUnprocessableEntity,
		fmt.Sprintf("%s cannot be changed after approval", field), details)
}

// NewPriceUnavailableError reports that no usable quote could be obtained.
// Callers may retry.
func NewPriceUnavailableError(symbol string, details ...string) *AppError {
	return newAppError(ErrorTypePriceUnavailable, http.StatusServiceUnavailable,
		fmt.Sprintf("price unavailable for %s", symbol), details)
}

// NewUserNotFoundError reports that the owning user vanished before the
// balance could be credited.
func NewUserNotFoundError(userID uint) *AppError {
	return newAppError(ErrorTypeUserNotFound, http.StatusNotFound,
		fmt.Sprintf("user %d not found", userID), nil)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool { return isType(err, ErrorTypeConflict) }

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

func IsImmutableFieldError(err error) bool { return isType(err, ErrorTypeImmutableField) }

func IsPriceUnavailableError(err error) bool { return isType(err, ErrorTypePriceUnavailable) }

func IsUserNotFoundError(err error) bool { return isType(err, ErrorTypeUserNotFound) }

func IsInternalError(err error) bool { return isType(err, ErrorTypeInternal) }

// AsAppError returns err unchanged when it already carries a tag, otherwise it
// wraps it as an internal error so the original is kept as the cause.
func AsAppError(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}
