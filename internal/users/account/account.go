// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles self-service management of a signed-in customer's
account: viewing the profile, editing it, and changing the password.

# Architecture

  - Domain: This package depends on the auth package for the User entity and
    for credential issuance.
  - Security: Every operation acts on the caller's own id, taken from the
    verified credential, never from the request body.
*/
package account

import (
	"context"

	"github.com/taibuivan/shopit/internal/users/auth"
)

// # Repository Contracts

// AccountRepository is the subset of [auth.UserRepository] this package needs.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	// FindCredentialsByID loads the account together with its password hash.
	FindCredentialsByID(context context.Context, id string) (*auth.Credentials, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Returns:
		  - *auth.User: The record as stored
		  - error: apperr.Conflict on a taken email, or storage failures
	*/
	Update(context context.Context, user *auth.User) (*auth.User, error)

	// UpdatePassword replaces the stored hash.
	UpdatePassword(context context.Context, id, passwordHash string) error
}

// SessionIssuer signs a fresh credential for a user.
type SessionIssuer interface {
	Issue(user *auth.User) (*auth.Session, error)
}
