// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every response (Success or Error) follows the same JSON envelope: a boolean
// "success" flag next to the operation-specific fields, so storefront clients
// can branch on a single key.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/shopit/internal/platform/apperr"
	"github.com/taibuivan/shopit/internal/platform/constants"
	"github.com/taibuivan/shopit/internal/platform/ctxutil"
)

// Fields holds the operation-specific members of a success envelope.
type Fields map[string]any

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// Success writes a success envelope with the given status code.
//
// The "success" member is always set by this function and cannot be
// overridden through fields.
func Success(writer http.ResponseWriter, statusCode int, fields Fields) {
	body := make(Fields, len(fields)+1)
	for key, value := range fields {
		body[key] = value
	}
	body[constants.FieldSuccess] = true
	JSON(writer, statusCode, body)
}

// OK writes a 200 OK success envelope.
func OK(writer http.ResponseWriter, fields Fields) {
	Success(writer, http.StatusOK, fields)
}

// Message writes a 200 OK success envelope carrying only a message.
func Message(writer http.ResponseWriter, message string) {
	OK(writer, Fields{constants.FieldMessage: message})
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	appError := apperr.As(err)
	if appError == nil {
		// Unexpected internal error: log full details but hide them from the client.
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= http.StatusInternalServerError {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Success: false,
		Message: appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
