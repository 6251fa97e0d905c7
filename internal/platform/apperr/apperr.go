// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for ShopIt.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should either be an [AppError] or be
wrapped with %w so that [respond.Error] can classify it.
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Error Codes

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeAuth       = "AUTH_ERROR"
	CodeForbidden  = "FORBIDDEN"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeMail       = "MAIL_ERROR"
	CodeStore      = "STORE_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the ShopIt API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Unauthorized creates a 401 AUTH_ERROR.
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeAuth,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// BadCredential creates an AUTH_ERROR answered with 400.
//
// Used when an already authenticated caller supplies a wrong secret (e.g. the
// old password on a password change): the session itself is still valid.
func BadCredential(msg string) *AppError {
	return &AppError{
		Code:       CodeAuth,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// NotFound creates a 404 [AppError] with the given message.
//
// Example:
//
//	apperr.NotFound("User not found with this email")
func NotFound(msg string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    msg,
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
		Cause:      cause,
	}
}

// # Server Errors (5xx)

// Mail creates a 500 [AppError] for a failed email delivery.
//
// Unlike [Internal], the client sees the delivery failure message since the
// request is expected to be retried by the user.
func Mail(cause error) *AppError {
	msg := "Email could not be sent"
	if cause != nil {
		msg = cause.Error()
	}
	return &AppError{
		Code:       CodeMail,
		Message:    msg,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Store creates a 500 [AppError] wrapping a persistence failure.
func Store(cause error) *AppError {
	return &AppError{
		Code:       CodeStore,
		Message:    "A storage error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsNotFound reports whether err carries a NOT_FOUND [AppError].
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// HasCode reports whether the first [AppError] in err's chain has the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
