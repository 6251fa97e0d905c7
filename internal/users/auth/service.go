// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/shopit/internal/platform/apperr"
	"github.com/taibuivan/shopit/internal/platform/mail"
	"github.com/taibuivan/shopit/internal/platform/sec"
	"github.com/taibuivan/shopit/pkg/textnorm"
	"github.com/taibuivan/shopit/pkg/uuid"
)

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// login or recovery logic must be reviewed by the security team.
type Service struct {
	userRepository  UserRepository
	revocationStore RevocationStore
	issuer          *Issuer
	mailer          mail.Mailer
	resetTokenTTL   time.Duration
	logger          *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	revocations RevocationStore,
	issuer *Issuer,
	mailer mail.Mailer,
	resetTokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	if resetTokenTTL <= 0 {
		resetTokenTTL = DefaultResetTokenTTL
	}
	return &Service{
		userRepository:  userRepo,
		revocationStore: revocations,
		issuer:          issuer,
		mailer:          mailer,
		resetTokenTTL:   resetTokenTTL,
		logger:          logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new customer.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: The account starts with the placeholder avatar and the "user"
role. Uniqueness of the email is left to the store, which answers a Conflict.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Session: Credential for the new account
  - err: Validation, Conflict (if email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {
	now := time.Now().UTC()
	user := User{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		Role:      sec.RoleUser,
		Avatar:    PlaceholderAvatar,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user.Normalize()

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := ValidatePassword(FieldPassword, input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	credentials := &Credentials{User: user, PasswordHash: hashedPassword}
	if err := service.userRepository.Create(context, credentials); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_registered", slog.String("user_id", user.ID))

	return service.issue(&credentials.User)
}

// # Authentication Flow

/*
Login validates user credentials and issues a credential.

Description: An unknown email and a wrong password produce the same error so
the response cannot be used to probe for registered addresses.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *Session: Credential and user profile
  - err: ValidationError, Unauthorized or storage failures
*/
func (service *Service) Login(context context.Context, email, password string) (*Session, error) {
	email = textnorm.Email(email)
	if email == "" || password == "" {
		return nil, apperr.ValidationError(MsgLoginMissing)
	}

	credentials, err := service.userRepository.FindCredentialsByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	// bcrypt comparison is constant-time.
	if !sec.CheckPasswordHash(password, credentials.PasswordHash) {
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	return service.issue(&credentials.User)
}

/*
Logout invalidates the credential described by claims.

Description: The token id is denylisted until the token would have expired on
its own. The user store is not touched.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims

Returns:
  - err: Denylist write failures
*/
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}

	remaining := claims.RemainingLifetime(time.Now())
	if err := service.revocationStore.Revoke(context, claims.ID, remaining); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", apperr.Store(err))
	}

	return nil
}

// # Password Recovery

/*
ForgotPassword emails a single-use reset link to the owner of email.

Description: Only the SHA-256 digest of the token is stored. If the email
cannot be delivered the pending reset is withdrawn so no orphan token stays
usable.

Parameters:
  - context: context.Context
  - email: string
  - baseURL: string (scheme://host the link points at)

Returns:
  - string: The address the link was sent to
  - err: NotFound, MailError or storage errors
*/
func (service *Service) ForgotPassword(context context.Context, email, baseURL string) (string, error) {
	user, err := service.userRepository.FindByEmail(context, textnorm.Email(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.NotFound(MsgEmailNotFound)
		}
		return "", fmt.Errorf("auth_service_forgot_password_lookup_failed: %w", err)
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	reset := PasswordReset{
		TokenHash: sec.HashToken(token),
		ExpiresAt: time.Now().UTC().Add(service.resetTokenTTL),
	}
	if err := service.userRepository.SetPasswordReset(context, user.ID, reset); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	message, err := mail.PasswordReset(user.Email, mail.PasswordResetData{
		ResetURL: baseURL + ResetPath + token,
		ValidFor: service.resetTokenTTL,
	})
	if err == nil {
		err = service.mailer.Send(context, message)
	}
	if err != nil {
		service.withdrawReset(context, user.ID)
		return "", fmt.Errorf("auth_service_forgot_password_failed: %w", apperr.Mail(err))
	}

	service.logger.InfoContext(context, "password_reset_requested", slog.String("user_id", user.ID))

	return user.Email, nil
}

// withdrawReset clears a pending reset after a failed delivery.
func (service *Service) withdrawReset(context context.Context, userID string) {
	if err := service.userRepository.ClearPasswordReset(context, userID); err != nil {
		service.logger.ErrorContext(context, "password_reset_cleanup_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

// ResetInput carries the token from the emailed link and the new password.
type ResetInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

/*
ResetPassword completes the forgot-password flow.

Description: Resolves the token by digest and expiry, sets the new password
(which also consumes the token) and signs the user in.

Parameters:
  - context: context.Context
  - input: ResetInput

Returns:
  - *Session: Credential for the recovered account
  - err: ValidationError (bad token, mismatch, weak password) or storage errors
*/
func (service *Service) ResetPassword(context context.Context, input ResetInput) (*Session, error) {
	credentials, err := service.userRepository.FindByResetToken(context, sec.HashToken(input.Token), time.Now().UTC())
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ValidationError(MsgResetTokenInvalid)
		}
		return nil, fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}

	if input.Password != input.ConfirmPassword {
		return nil, apperr.ValidationError(MsgPasswordMismatch)
	}
	if err := ValidatePassword(FieldPassword, input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, credentials.ID, hashedPassword); err != nil {
		return nil, fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "password_reset_completed", slog.String("user_id", credentials.ID))

	return service.issue(&credentials.User)
}

func (service *Service) issue(user *User) (*Session, error) {
	session, err := service.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}
	return session, nil
}
