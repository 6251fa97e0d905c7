// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/shopit/internal/platform/apperr"
	"github.com/taibuivan/shopit/internal/platform/sec"
	"github.com/taibuivan/shopit/internal/users/auth"
	"github.com/taibuivan/shopit/pkg/pointer"
	"github.com/taibuivan/shopit/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for a customer's own account.
type Service struct {
	accountRepository AccountRepository
	issuer            SessionIssuer
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, issuer SessionIssuer, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		issuer:            issuer,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the public identity of the signed-in user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	if !uuid.Valid(userID) {
		return nil, apperr.NotFound(auth.MsgUserNotFound)
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of profile fields.
// A nil field keeps the stored value.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

/*
UpdateProfile applies a partial set of changes to a user's profile.

Description: Fetches the existing user state, overrides provided fields,
validates the whole record and persists it.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Validation, Conflict or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.GetProfile(context, userID)
	if err != nil {
		return nil, err
	}

	user.Name = pointer.Fallback(input.Name, user.Name)
	user.Email = pointer.Fallback(input.Email, user.Email)
	user.Normalize()

	if err := user.Validate(); err != nil {
		return nil, err
	}

	updated, err := service.accountRepository.Update(context, user)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_profile_updated", slog.String("user_id", userID))

	return updated, nil
}

// # Security Management

// UpdatePasswordInput carries the current and the desired password.
type UpdatePasswordInput struct {
	OldPassword string
	Password    string
}

/*
UpdatePassword changes the signed-in user's password.

Description: The current password must match before anything is written. A
fresh credential is issued for the new password.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdatePasswordInput

Returns:
  - *auth.Session: New credential
  - error: BadCredential (400) on a wrong old password, validation or storage failures
*/
func (service *Service) UpdatePassword(context context.Context, userID string, input UpdatePasswordInput) (*auth.Session, error) {
	if !uuid.Valid(userID) {
		return nil, apperr.NotFound(auth.MsgUserNotFound)
	}

	credentials, err := service.accountRepository.FindCredentialsByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_password_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.OldPassword, credentials.PasswordHash) {
		return nil, apperr.BadCredential(auth.MsgOldPasswordWrong)
	}

	if err := auth.ValidatePassword(auth.FieldPassword, input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_password_hash_failed: %w", err)
	}

	if err := service.accountRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return nil, fmt.Errorf("account_service_password_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_password_changed", slog.String("user_id", userID))

	session, err := service.issuer.Issue(&credentials.User)
	if err != nil {
		return nil, fmt.Errorf("account_service_issue_failed: %w", err)
	}
	return session, nil
}
