// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used exclusively in the service layer, never in handlers or
// storage. It ensures that business logic only operates on semantically valid data.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/shopit/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, message)
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int, message string) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, orDefault(message, fmt.Sprintf("Maximum %d characters", max)))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
// Empty values are left to [Validator.Required].
func (v *Validator) MinLen(field, value string, min int, message string) *Validator {
	if value != "" && utf8.RuneCountInString(value) < min {
		v.add(field, orDefault(message, fmt.Sprintf("Minimum %d characters", min)))
	}
	return v
}

// MaxBytes fails if the UTF-8 encoding of value is longer than max bytes.
func (v *Validator) MaxBytes(field, value string, max int, message string) *Validator {
	if len(value) > max {
		v.add(field, orDefault(message, fmt.Sprintf("Maximum %d bytes", max)))
	}
	return v
}

// Email fails if the value is not a bare RFC 5322 address.
//
// Display-name forms such as "A <a@x.com>" are rejected: the stored email must
// be the address itself.
func (v *Validator) Email(field, value, message string) *Validator {
	if value == "" {
		return v
	}
	address, err := mail.ParseAddress(value)
	if err != nil || address.Address != value {
		v.add(field, orDefault(message, "Must be a valid email address"))
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value, message string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, orDefault(message, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", "))))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("confirmPassword", password != confirm, "Password does not match")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// The envelope message is the first failure so that single-field errors read
// naturally on the client. Every failure is listed in Details.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(v.errs[0].Message, v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
