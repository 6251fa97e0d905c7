// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/shopit/internal/platform/apperr"
	"github.com/taibuivan/shopit/internal/platform/database/schema"
	"github.com/taibuivan/shopit/internal/platform/dberr"
	"github.com/taibuivan/shopit/internal/platform/postgres"
	"github.com/taibuivan/shopit/internal/platform/sec"
)

var (
	account = schema.UserAccount

	// publicSelect never mentions the secret columns.
	publicSelect = fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(account.PublicColumns(), ", "), account.Table)

	credentialSelect = fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(account.CredentialColumns(), ", "), account.Table)

	publicReturning = "RETURNING " + strings.Join(account.PublicColumns(), ", ")

	errUserNotFound = apperr.NotFound(MsgUserNotFound)
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
// db is usually the application *pgxpool.Pool.
func NewUserRepository(db postgres.DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

/*
Create persists a new user record into the users.account table.

Parameters:
  - context: context.Context
  - credentials: *Credentials (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, credentials *Credentials) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		account.Table,
		account.ID, account.Name, account.Email, account.Password, account.Role,
		account.AvatarPublicID, account.AvatarURL, account.CreatedAt, account.UpdatedAt,
	)

	_, err := repository.db.Exec(context, query,
		credentials.ID,
		credentials.Name,
		credentials.Email,
		credentials.PasswordHash,
		string(credentials.Role),
		credentials.Avatar.PublicID,
		credentials.Avatar.URL,
		credentials.CreatedAt,
		credentials.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict(MsgEmailTaken, err)
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", dberr.Wrap(err, nil))
	}

	return nil
}

// FindByID retrieves the public projection of a user by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	row := repository.db.QueryRow(context, publicSelect+" WHERE "+account.ID+" = $1", id)
	user, err := scanUser(row)
	if err != nil {
		return nil, wrapFind(err, "find_by_id")
	}
	return user, nil
}

// FindByEmail retrieves the public projection of a user by email.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	row := repository.db.QueryRow(context, publicSelect+" WHERE "+account.Email+" = $1", email)
	user, err := scanUser(row)
	if err != nil {
		return nil, wrapFind(err, "find_by_email")
	}
	return user, nil
}

// FindCredentialsByID retrieves a user with its secrets by primary key.
func (repository *PostgresUserRepository) FindCredentialsByID(context context.Context, id string) (*Credentials, error) {
	row := repository.db.QueryRow(context, credentialSelect+" WHERE "+account.ID+" = $1", id)
	credentials, err := scanCredentials(row)
	if err != nil {
		return nil, wrapFind(err, "find_credentials_by_id")
	}
	return credentials, nil
}

// FindCredentialsByEmail retrieves a user with its secrets by email.
func (repository *PostgresUserRepository) FindCredentialsByEmail(context context.Context, email string) (*Credentials, error) {
	row := repository.db.QueryRow(context, credentialSelect+" WHERE "+account.Email+" = $1", email)
	credentials, err := scanCredentials(row)
	if err != nil {
		return nil, wrapFind(err, "find_credentials_by_email")
	}
	return credentials, nil
}

/*
FindByResetToken resolves a pending, unexpired password reset.

Parameters:
  - context: context.Context
  - tokenHash: string
  - now: time.Time

Returns:
  - *Credentials: The owner of the reset
  - error: apperr.NotFound when unknown or expired
*/
func (repository *PostgresUserRepository) FindByResetToken(context context.Context, tokenHash string, now time.Time) (*Credentials, error) {
	query := credentialSelect + " WHERE " + account.ResetPasswordToken + " = $1 AND " + account.ResetPasswordExpire + " > $2"

	credentials, err := scanCredentials(repository.db.QueryRow(context, query, tokenHash, now))
	if err != nil {
		return nil, wrapFind(err, "find_by_reset_token")
	}
	return credentials, nil
}

// List returns every account, newest first.
func (repository *PostgresUserRepository) List(context context.Context) ([]User, error) {
	rows, err := repository.db.Query(context, publicSelect+" ORDER BY "+account.CreatedAt+" DESC")
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", dberr.Wrap(err, nil))
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", dberr.Wrap(err, nil))
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", dberr.Wrap(err, nil))
	}

	return users, nil
}

/*
Update persists a user's profile fields and returns the stored record.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - *User: The record after the update
  - error: apperr.NotFound, apperr.Conflict or database errors
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1
		%s`,
		account.Table,
		account.Name, account.Email, account.Role, account.AvatarPublicID, account.AvatarURL, account.UpdatedAt,
		account.ID,
		publicReturning,
	)

	row := repository.db.QueryRow(context, query,
		user.ID,
		user.Name,
		user.Email,
		string(user.Role),
		user.Avatar.PublicID,
		user.Avatar.URL,
		time.Now().UTC(),
	)

	updated, err := scanUser(row)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict(MsgEmailTaken, err)
		}
		return nil, wrapFind(err, "update")
	}
	return updated, nil
}

// UpdatePassword replaces the hash and clears any pending reset in one statement.
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, id, passwordHash string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = NULL, %s = NULL, %s = $3 WHERE %s = $1",
		account.Table, account.Password, account.ResetPasswordToken, account.ResetPasswordExpire, account.UpdatedAt, account.ID)

	return repository.execOne(context, "update_password", query, id, passwordHash, time.Now().UTC())
}

// SetPasswordReset writes the reset pair without touching any other column.
func (repository *PostgresUserRepository) SetPasswordReset(context context.Context, id string, reset PasswordReset) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1",
		account.Table, account.ResetPasswordToken, account.ResetPasswordExpire, account.ID)

	return repository.execOne(context, "set_password_reset", query, id, reset.TokenHash, reset.ExpiresAt)
}

// ClearPasswordReset nulls the reset pair without touching any other column.
func (repository *PostgresUserRepository) ClearPasswordReset(context context.Context, id string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = NULL, %s = NULL WHERE %s = $1",
		account.Table, account.ResetPasswordToken, account.ResetPasswordExpire, account.ID)

	return repository.execOne(context, "clear_password_reset", query, id)
}

// Delete removes the row permanently.
func (repository *PostgresUserRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", account.Table, account.ID)
	return repository.execOne(context, "delete", query, id)
}

// execOne runs a statement that must affect exactly one account.
func (repository *PostgresUserRepository) execOne(context context.Context, operation, query string, args ...any) error {
	tag, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_%s_failed: %w", operation, dberr.Wrap(err, nil))
	}
	if tag.RowsAffected() == 0 {
		return errUserNotFound
	}
	return nil
}

// # Row Mapping

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var role string

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&role,
		&user.Avatar.PublicID,
		&user.Avatar.URL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = sec.UserRole(role)
	return user, nil
}

func scanCredentials(row pgx.Row) (*Credentials, error) {
	credentials := &Credentials{}
	var role string
	var resetToken *string
	var resetExpire *time.Time

	err := row.Scan(
		&credentials.ID,
		&credentials.Name,
		&credentials.Email,
		&role,
		&credentials.Avatar.PublicID,
		&credentials.Avatar.URL,
		&credentials.CreatedAt,
		&credentials.UpdatedAt,
		&credentials.PasswordHash,
		&resetToken,
		&resetExpire,
	)
	if err != nil {
		return nil, err
	}

	credentials.Role = sec.UserRole(role)
	if resetToken != nil && resetExpire != nil {
		credentials.Reset = &PasswordReset{TokenHash: *resetToken, ExpiresAt: *resetExpire}
	}
	return credentials, nil
}

// wrapFind maps a lookup failure onto the repository's error contract.
func wrapFind(err error, operation string) error {
	wrapped := dberr.Wrap(err, errUserNotFound)
	if apperr.IsNotFound(wrapped) {
		return wrapped
	}
	return fmt.Errorf("postgres_user_repo_%s_failed: %w", operation, wrapped)
}
