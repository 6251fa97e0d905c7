// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Methods returning [User] never load secrets. Only the methods whose names
// say so return [Credentials].
//
// Missing records are reported as a NOT_FOUND [apperr.AppError] and duplicate
// emails as CONFLICT.
type UserRepository interface {

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - credentials: *Credentials (ID, timestamps and hash already set)

		Returns:
		  - error: Conflict on duplicate email, or persistence failures
	*/
	Create(context context.Context, credentials *Credentials) error

	/*
		FindByID returns the public projection of the account with the given ID.
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the public projection of the account with the given email.
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindCredentialsByID returns the account with its password hash.
	*/
	FindCredentialsByID(context context.Context, id string) (*Credentials, error)

	/*
		FindCredentialsByEmail returns the account with its password hash.
	*/
	FindCredentialsByEmail(context context.Context, email string) (*Credentials, error)

	/*
		FindByResetToken returns the account whose pending reset matches tokenHash
		and expires after now.

		Parameters:
		  - context: context.Context
		  - tokenHash: string (sha256 hex of the emailed token)
		  - now: time.Time

		Returns:
		  - *Credentials: The matching account
		  - error: NotFound when the token is unknown or expired
	*/
	FindByResetToken(context context.Context, tokenHash string, now time.Time) (*Credentials, error)

	/*
		List returns every account, newest first.
	*/
	List(context context.Context) ([]User, error)

	/*
		Update persists the profile fields (name, email, role, avatar) of user
		and returns the stored record.

		Callers validate the record first.
	*/
	Update(context context.Context, user *User) (*User, error)

	/*
		UpdatePassword replaces the password hash and discards any pending reset.
	*/
	UpdatePassword(context context.Context, id, passwordHash string) error

	/*
		SetPasswordReset records a pending reset. This partial update touches
		only the reset pair and skips record validation.
	*/
	SetPasswordReset(context context.Context, id string, reset PasswordReset) error

	/*
		ClearPasswordReset discards a pending reset. Partial update, no validation.
	*/
	ClearPasswordReset(context context.Context, id string) error

	/*
		Delete removes the account permanently.
	*/
	Delete(context context.Context, id string) error
}

// # Credential Revocation

// RevocationStore keeps the IDs of credentials ended by logout until they
// would have expired anyway.
type RevocationStore interface {

	/*
		Revoke denylists tokenID for ttl.

		Parameters:
		  - context: context.Context
		  - tokenID: string (the jti claim)
		  - ttl: time.Duration (remaining lifetime of the credential)

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, tokenID string, ttl time.Duration) error

	/*
		IsRevoked reports whether tokenID has been denylisted.
	*/
	IsRevoked(context context.Context, tokenID string) (bool, error)
}
