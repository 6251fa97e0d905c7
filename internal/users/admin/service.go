// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

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

// Service implements the administrator use cases.
type Service struct {
	userRepository UserRepository
	logger         *slog.Logger
}

// NewService constructs a new admin [Service].
func NewService(userRepo UserRepository, logger *slog.Logger) *Service {
	return &Service{userRepository: userRepo, logger: logger}
}

/*
AuthorizeCaller re-reads the caller from the store and confirms they are
still an administrator.

Returns:
  - error: Unauthorized if the account is gone, Forbidden if its stored role
    is below admin, or storage failures
*/
func (service *Service) AuthorizeCaller(context context.Context, callerID string) error {
	caller, err := service.userRepository.FindByID(context, callerID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Unauthorized(MsgCallerGone)
		}
		return fmt.Errorf("admin_service_authorize_failed: %w", err)
	}

	if !caller.Role.AtLeast(sec.RoleAdmin) {
		service.logger.WarnContext(context, "admin_access_revoked",
			slog.String("user_id", callerID),
			slog.String("role", string(caller.Role)),
		)
		return apperr.Forbidden(fmt.Sprintf(MsgRoleDenied, caller.Role))
	}
	return nil
}

// ListUsers returns every account, newest first.
func (service *Service) ListUsers(context context.Context) ([]auth.User, error) {
	users, err := service.userRepository.List(context)
	if err != nil {
		return nil, fmt.Errorf("admin_service_list_failed: %w", err)
	}
	return users, nil
}

/*
GetUser loads one account by id.

Returns:
  - *auth.User: The account
  - error: NotFound "User doesn't exist with id <id>" or storage failures
*/
func (service *Service) GetUser(context context.Context, id string) (*auth.User, error) {
	if !uuid.Valid(id) {
		return nil, missing(id)
	}

	user, err := service.userRepository.FindByID(context, id)
	if err != nil {
		return nil, wrap(err, id, "admin_service_get_failed")
	}
	return user, nil
}

// UpdateUserInput holds the administrator-editable fields. A nil field keeps
// the stored value.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *string
}

/*
UpdateUser edits the name, email and role of any account.

Description: The merged record goes through the same full validation as a
self-service profile update, plus the role check.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateUserInput

Returns:
  - *auth.User: The record as stored
  - error: NotFound, ValidationError, Conflict or storage failures
*/
func (service *Service) UpdateUser(context context.Context, id string, input UpdateUserInput) (*auth.User, error) {
	user, err := service.GetUser(context, id)
	if err != nil {
		return nil, err
	}

	user.Name = pointer.Fallback(input.Name, user.Name)
	user.Email = pointer.Fallback(input.Email, user.Email)
	user.Role = sec.UserRole(pointer.Fallback(input.Role, string(user.Role)))
	user.Normalize()

	if err := user.Validate(); err != nil {
		return nil, err
	}

	updated, err := service.userRepository.Update(context, user)
	if err != nil {
		return nil, wrap(err, id, "admin_service_update_failed")
	}

	service.logger.InfoContext(context, "user_updated_by_admin",
		slog.String("user_id", id),
		slog.String("role", string(updated.Role)),
	)

	return updated, nil
}

// DeleteUser removes an account permanently.
func (service *Service) DeleteUser(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return missing(id)
	}

	if err := service.userRepository.Delete(context, id); err != nil {
		return wrap(err, id, "admin_service_delete_failed")
	}

	service.logger.InfoContext(context, "user_deleted", slog.String("user_id", id))
	return nil
}

func missing(id string) error {
	return apperr.NotFound(fmt.Sprintf(MsgUserMissing, id))
}

// wrap rewrites a store NotFound into the admin message for id.
func wrap(err error, id, operation string) error {
	if apperr.IsNotFound(err) {
		return missing(id)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
