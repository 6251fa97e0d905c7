// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin implements user management for administrators: listing,
inspecting, editing and deleting any account.

Every route is guarded by the admin role, checked twice: once against the
token claims and once against the stored account, so a demoted or deleted
administrator loses access before their token expires. Apart from the role
check nothing limits what an administrator may do, including changing their
own role.
*/
package admin

import (
	"context"

	"github.com/taibuivan/shopit/internal/users/auth"
)

// UserRepository is the subset of [auth.UserRepository] used by administrators.
type UserRepository interface {
	List(context context.Context) ([]auth.User, error)
	FindByID(context context.Context, id string) (*auth.User, error)
	Update(context context.Context, user *auth.User) (*auth.User, error)
	Delete(context context.Context, id string) error
}

const (
	// MsgUserMissing is answered for an id that matches no account.
	MsgUserMissing = "User doesn't exist with id %s"

	// MsgCallerGone is answered when the token belongs to a deleted account.
	MsgCallerGone = "The account for this token no longer exists"

	// MsgRoleDenied is answered when the stored role is below admin.
	MsgRoleDenied = "Role (%s) is not allowed to access this resource"
)

// ParamID names the URL parameter carrying the target user id.
const ParamID = "id"
