// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/taibuivan/shopit/internal/platform/apperr"
	"github.com/taibuivan/shopit/internal/platform/sec"
	"github.com/taibuivan/shopit/internal/users/auth"
)

const usersNamespace = "shopit.users"

func userDoc(id, email string) bson.D {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Ann"},
		{Key: "email", Value: email},
		{Key: "role", Value: "user"},
		{Key: "avatar", Value: bson.D{{Key: "public_id", Value: "23123"}, {Key: "url", Value: "23123"}}},
		{Key: "createdAt", Value: created},
		{Key: "updatedAt", Value: created},
	}
}

/*
TestMongoUserRepository covers document mapping and error translation against
a mocked deployment.
*/
func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create_success", func(mt *mtest.T) {
		repository := auth.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repository.Create(context.Background(), &auth.Credentials{
			User:         auth.User{ID: "u1", Name: "Ann", Email: "ann@x.io", Role: sec.RoleUser},
			PasswordHash: "hash",
		})
		assert.NoError(t, err)
	})

	mt.Run("create_duplicate_email", func(mt *mtest.T) {
		repository := auth.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		err := repository.Create(context.Background(), &auth.Credentials{
			User: auth.User{ID: "u1", Email: "ann@x.io", Role: sec.RoleUser},
		})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
		assert.Equal(t, auth.MsgEmailTaken, apperr.As(err).Message)
	})

	mt.Run("find_by_email", func(mt *mtest.T) {
		repository := auth.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNamespace, mtest.FirstBatch, userDoc("u1", "ann@x.io")))

		user, err := repository.FindByEmail(context.Background(), "ann@x.io")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, sec.RoleUser, user.Role)
		assert.Equal(t, "23123", user.Avatar.URL)
	})

	mt.Run("find_missing", func(mt *mtest.T) {
		repository := auth.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNamespace, mtest.FirstBatch))

		_, err := repository.FindByID(context.Background(), "nobody")
		assert.True(t, apperr.IsNotFound(err))
	})

	mt.Run("find_credentials_with_reset", func(mt *mtest.T) {
		repository := auth.NewMongoUserRepository(mt.DB)
		expires := time.Now().Add(time.Minute).UTC().Truncate(time.Millisecond)
		document := append(userDoc("u1", "ann@x.io"),
			bson.E{Key: "password", Value: "hash"},
			bson.E{Key: "resetPasswordToken", Value: "digest"},
			bson.E{Key: "resetPasswordExpire", Value: expires},
		)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNamespace, mtest.FirstBatch, document))

		credentials, err := repository.FindByResetToken(context.Background(), "digest", time.Now())
		require.NoError(t, err)
		assert.Equal(t, "hash", credentials.PasswordHash)
		require.NotNil(t, credentials.Reset)
		assert.Equal(t, "digest", credentials.Reset.TokenHash)
		assert.True(t, expires.Equal(credentials.Reset.ExpiresAt))
	})

	mt.Run("list", func(mt *mtest.T) {
		repository := auth.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNamespace, mtest.FirstBatch,
			userDoc("u2", "bob@x.io"), userDoc("u1", "ann@x.io")))

		users, err := repository.List(context.Background())
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "u2", users[0].ID)
	})

	mt.Run("update_returns_new_document", func(mt *mtest.T) {
		repository := auth.NewMongoUserRepository(mt.DB)
		updated := userDoc("u1", "new@x.io")
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: updated}})

		user, err := repository.Update(context.Background(), &auth.User{ID: "u1", Name: "Ann", Email: "new@x.io", Role: sec.RoleUser})
		require.NoError(t, err)
		assert.Equal(t, "new@x.io", user.Email)
	})

	mt.Run("update_password_missing", func(mt *mtest.T) {
		repository := auth.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		err := repository.UpdatePassword(context.Background(), "nobody", "hash")
		assert.True(t, apperr.IsNotFound(err))
	})

	mt.Run("set_password_reset", func(mt *mtest.T) {
		repository := auth.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})

		err := repository.SetPasswordReset(context.Background(), "u1", auth.PasswordReset{TokenHash: "digest", ExpiresAt: time.Now()})
		assert.NoError(t, err)
	})

	mt.Run("delete_missing", func(mt *mtest.T) {
		repository := auth.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})

		err := repository.Delete(context.Background(), "nobody")
		assert.True(t, apperr.IsNotFound(err))
	})

	mt.Run("ensure_indexes", func(mt *mtest.T) {
		repository := auth.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(t, repository.EnsureIndexes(context.Background()))
	})
}
