// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the customer identity layer of ShopIt.

It defines the User entity, the storage contract for it, and the use cases that
establish or end an identity: registration, login, logout and password
recovery by emailed token.

# Architecture

Entities defined here carry no storage or transport concerns. A User is the
only shape ever serialized; secrets live in [Credentials], which only the
explicitly named repository methods return.
*/
package auth

import (
	"time"

	"github.com/taibuivan/shopit/internal/platform/sec"
	"github.com/taibuivan/shopit/internal/platform/validate"
	"github.com/taibuivan/shopit/pkg/textnorm"
)

// # Domain Entities

// Avatar references an image hosted by an external media service.
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// User is the public projection of a ShopIt account.
type User struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      sec.UserRole `json:"role"`
	Avatar    Avatar       `json:"avatar"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// PasswordReset is a pending recovery request. Only the hash of the emailed
// token is kept.
type PasswordReset struct {
	TokenHash string
	ExpiresAt time.Time
}

// Credentials extends a User with its secrets.
//
// It is never written to a response: handlers only ever receive the embedded
// User.
type Credentials struct {
	User
	PasswordHash string         `json:"-"`
	Reset        *PasswordReset `json:"-"`
}

// PlaceholderAvatar is assigned at registration until an upload feature exists.
var PlaceholderAvatar = Avatar{PublicID: "23123", URL: "23123"}

// # Field Identifiers

const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldOldPassword     = "oldPassword"
	FieldRole            = "role"
	FieldToken           = "token"
	FieldUser            = "user"
	FieldUsers           = "users"
	FieldCount           = "count"
)

// # Validation

// Normalize canonicalizes the user-typed fields in place.
func (user *User) Normalize() {
	user.Name = textnorm.Name(user.Name)
	user.Email = textnorm.Email(user.Email)
}

// Validate checks the full record before it is persisted.
func (user *User) Validate() error {
	validator := &validate.Validator{}

	validator.
		Required(FieldName, user.Name, MsgNameRequired).
		MaxLen(FieldName, user.Name, NameMaxLength, MsgNameTooLong).
		Required(FieldEmail, user.Email, MsgEmailRequired).
		Email(FieldEmail, user.Email, MsgEmailInvalid).
		OneOf(FieldRole, string(user.Role), MsgRoleInvalid, sec.RoleNames()...)

	return validator.Err()
}

// ValidatePassword checks the plaintext password policy.
func ValidatePassword(field, password string) error {
	validator := &validate.Validator{}

	validator.
		Required(field, password, MsgPasswordRequired).
		MinLen(field, password, PasswordMinLength, MsgPasswordTooShort).
		MaxBytes(field, password, PasswordMaxBytes, MsgPasswordTooLong)

	return validator.Err()
}
