// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Account Constraints

const (
	// NameMaxLength is the longest display name, in characters.
	NameMaxLength = 30

	// PasswordMinLength is the shortest accepted password, in characters.
	PasswordMinLength = 6

	// PasswordMaxBytes is the longest password bcrypt accepts, in UTF-8 bytes.
	PasswordMaxBytes = 72

	// ResetTokenLength is the byte length of the random password reset token.
	// It is sent hex-encoded, so the URL carries twice as many characters.
	ResetTokenLength = 20

	// DefaultResetTokenTTL applies when no RESET_TOKEN_TTL is configured.
	DefaultResetTokenTTL = 30 * time.Minute

	// ResetPath is the public route a reset token is appended to.
	ResetPath = "/api/v1/password/reset/"
)

// # Client Messages

const (
	MsgNameRequired     = "Please enter your name"
	MsgNameTooLong      = "Your name cannot exceed 30 characters"
	MsgEmailRequired    = "Please enter your email"
	MsgEmailInvalid     = "Please enter valid email address"
	MsgRoleInvalid      = "Role must be one of: user, admin"
	MsgPasswordRequired = "Please enter your password"
	MsgPasswordTooShort = "Your password must be at least 6 characters"
	MsgPasswordTooLong  = "Your password cannot exceed 72 bytes"

	MsgLoginMissing       = "Please enter email & password"
	MsgInvalidCredentials = "Invalid Email or password"
	MsgEmailNotFound      = "User not found with this email"
	MsgResetTokenInvalid  = "Password reset token is invalid or has been expired"
	MsgPasswordMismatch   = "Password does not match"
	MsgOldPasswordWrong   = "Old password is incorrect"
	MsgUserNotFound       = "User not found"
	MsgEmailTaken         = "Duplicate email entered"
	MsgLoggedOut          = "Logged out"
	MsgEmailSent          = "Email send to %s"
)
