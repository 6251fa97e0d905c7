// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema centralizes table and column names of the relational store.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table               string
	ID                  string
	Name                string
	Email               string
	Password            string
	Role                string
	AvatarPublicID      string
	AvatarURL           string
	ResetPasswordToken  string
	ResetPasswordExpire string
	CreatedAt           string
	UpdatedAt           string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:               "users.account",
	ID:                  "id",
	Name:                "name",
	Email:               "email",
	Password:            "passwordhash",
	Role:                "role",
	AvatarPublicID:      "avatarpublicid",
	AvatarURL:           "avatarurl",
	ResetPasswordToken:  "resetpasswordtoken",
	ResetPasswordExpire: "resetpasswordexpire",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
}

// PublicColumns returns the columns of the public user projection, in scan order.
func (t UserAccountTable) PublicColumns() []string {
	return []string{
		t.ID, t.Name, t.Email, t.Role, t.AvatarPublicID, t.AvatarURL,
		t.CreatedAt, t.UpdatedAt,
	}
}

// CredentialColumns returns the public columns followed by the secret ones.
func (t UserAccountTable) CredentialColumns() []string {
	return append(t.PublicColumns(), t.Password, t.ResetPasswordToken, t.ResetPasswordExpire)
}
