// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopit/internal/platform/apperr"
	"github.com/taibuivan/shopit/internal/platform/sec"
	"github.com/taibuivan/shopit/internal/users/auth"
)

const (
	credentialColumns = "id, name, email, role, avatarpublicid, avatarurl, createdat, updatedat, passwordhash, resetpasswordtoken, resetpasswordexpire"

	findByResetTokenSQL   = "SELECT " + credentialColumns + " FROM users.account WHERE resetpasswordtoken = $1 AND resetpasswordexpire > $2"
	updatePasswordSQL     = "UPDATE users.account SET passwordhash = $2, resetpasswordtoken = NULL, resetpasswordexpire = NULL, updatedat = $3 WHERE id = $1"
	setPasswordResetSQL   = "UPDATE users.account SET resetpasswordtoken = $2, resetpasswordexpire = $3 WHERE id = $1"
	clearPasswordResetSQL = "UPDATE users.account SET resetpasswordtoken = NULL, resetpasswordexpire = NULL WHERE id = $1"
	deleteSQL             = "DELETE FROM users.account WHERE id = $1"
)

func newMockRepository(t *testing.T) (pgxmock.PgxPoolIface, *auth.PostgresUserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, auth.NewUserRepository(mock)
}

func exactly(query string) string {
	return "^" + regexp.QuoteMeta(query) + "$"
}

/*
TestPostgresUserRepository_FindByResetToken filters on the token hash and on an expiry after now.
*/
func TestPostgresUserRepository_FindByResetToken(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	hash := sec.HashToken("raw-token")
	expires := now.Add(10 * time.Minute)

	t.Run("pending", func(t *testing.T) {
		mock, repository := newMockRepository(t)

		rows := mock.NewRows([]string{
			"id", "name", "email", "role", "avatarpublicid", "avatarurl", "createdat", "updatedat",
			"passwordhash", "resetpasswordtoken", "resetpasswordexpire",
		}).AddRow(
			"0190a000-0000-7000-8000-000000000001", "Ann", "ann@x.io", "user", "23123", "23123", now, now,
			"$2a$10$hash", &hash, &expires,
		)
		mock.ExpectQuery(exactly(findByResetTokenSQL)).WithArgs(hash, now).WillReturnRows(rows)

		credentials, err := repository.FindByResetToken(context.Background(), hash, now)
		require.NoError(t, err)
		assert.Equal(t, "ann@x.io", credentials.Email)
		assert.Equal(t, sec.RoleUser, credentials.Role)
		require.NotNil(t, credentials.Reset)
		assert.Equal(t, hash, credentials.Reset.TokenHash)
		assert.Equal(t, expires, credentials.Reset.ExpiresAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired_or_unknown", func(t *testing.T) {
		mock, repository := newMockRepository(t)
		mock.ExpectQuery(exactly(findByResetTokenSQL)).WithArgs(hash, now).WillReturnError(pgx.ErrNoRows)

		_, err := repository.FindByResetToken(context.Background(), hash, now)
		assert.True(t, apperr.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection_lost", func(t *testing.T) {
		mock, repository := newMockRepository(t)
		mock.ExpectQuery(exactly(findByResetTokenSQL)).WithArgs(hash, now).WillReturnError(errors.New("conn closed"))

		_, err := repository.FindByResetToken(context.Background(), hash, now)
		assert.True(t, apperr.HasCode(err, apperr.CodeStore))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

/*
TestPostgresUserRepository_UpdatePassword clears the reset pair in the same statement.
*/
func TestPostgresUserRepository_UpdatePassword(t *testing.T) {
	const id = "0190a000-0000-7000-8000-000000000001"

	t.Run("success", func(t *testing.T) {
		mock, repository := newMockRepository(t)
		mock.ExpectExec(exactly(updatePasswordSQL)).
			WithArgs(id, "$2a$10$new", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repository.UpdatePassword(context.Background(), id, "$2a$10$new"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing_row", func(t *testing.T) {
		mock, repository := newMockRepository(t)
		mock.ExpectExec(exactly(updatePasswordSQL)).
			WithArgs(id, "$2a$10$new", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repository.UpdatePassword(context.Background(), id, "$2a$10$new")
		assert.True(t, apperr.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

/*
TestPostgresUserRepository_PasswordResetPair writes and clears only the reset columns.
*/
func TestPostgresUserRepository_PasswordResetPair(t *testing.T) {
	const id = "0190a000-0000-7000-8000-000000000001"
	reset := auth.PasswordReset{
		TokenHash: sec.HashToken("raw-token"),
		ExpiresAt: time.Date(2026, 1, 2, 3, 34, 5, 0, time.UTC),
	}

	mock, repository := newMockRepository(t)
	mock.ExpectExec(exactly(setPasswordResetSQL)).
		WithArgs(id, reset.TokenHash, reset.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(exactly(clearPasswordResetSQL)).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(exactly(clearPasswordResetSQL)).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repository.SetPasswordReset(context.Background(), id, reset))
	require.NoError(t, repository.ClearPasswordReset(context.Background(), id))
	assert.True(t, apperr.IsNotFound(repository.ClearPasswordReset(context.Background(), id)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresUserRepository_Delete maps an untouched row to not-found.
*/
func TestPostgresUserRepository_Delete(t *testing.T) {
	const id = "0190a000-0000-7000-8000-000000000001"

	mock, repository := newMockRepository(t)
	mock.ExpectExec(exactly(deleteSQL)).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(exactly(deleteSQL)).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(exactly(deleteSQL)).WithArgs(id).WillReturnError(errors.New("conn closed"))

	require.NoError(t, repository.Delete(context.Background(), id))

	err := repository.Delete(context.Background(), id)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)
	assert.Equal(t, auth.MsgUserNotFound, ae.Message)

	err = repository.Delete(context.Background(), id)
	assert.True(t, apperr.HasCode(err, apperr.CodeStore))

	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresUserRepository_CreateDuplicate maps a unique violation to the duplicate email conflict.
*/
func TestPostgresUserRepository_CreateDuplicate(t *testing.T) {
	mock, repository := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO users\.account`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "account_email_key"})

	credentials := &auth.Credentials{User: auth.User{ID: "0190a000-0000-7000-8000-000000000001", Role: sec.RoleUser}}
	err := repository.Create(context.Background(), credentials)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeConflict, ae.Code)
	assert.Equal(t, auth.MsgEmailTaken, ae.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}
