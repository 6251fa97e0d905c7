// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taibuivan/shopit/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// notFound is returned as-is when the driver reports a missing row or document.
func Wrap(err error, notFound *apperr.AppError) error {
	if err == nil {
		return nil
	}

	// Errors already classified upstream pass through untouched.
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, mongo.ErrNoDocuments) {
		if notFound != nil {
			return notFound
		}
		return apperr.NotFound("Resource not found")
	}

	// 2. Uniqueness violations
	if IsUniqueViolation(err) {
		return apperr.Conflict("Duplicate value entered", err)
	}

	// 3. Anything else is a storage failure
	return apperr.Store(err)
}

// IsUniqueViolation reports whether err is a unique-index violation from
// either PostgreSQL (SQLSTATE 23505) or MongoDB (E11000).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return mongo.IsDuplicateKeyError(err)
}
