// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopit/internal/platform/sec"
)

func newTestTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, issuer)
}

/*
TestPasswordHash verifies bcrypt round-trip and rejection of wrong passwords.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, sec.CheckPasswordHash("secret1", hash))
	assert.False(t, sec.CheckPasswordHash("secret2", hash))
	assert.False(t, sec.CheckPasswordHash("secret1", ""))
}

/*
TestSecureToken checks token length, randomness and hash determinism.
*/
func TestSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(20)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(20)
	require.NoError(t, err)

	assert.Len(t, first, 40)
	assert.NotEqual(t, first, second)

	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.NotEqual(t, sec.HashToken(first), sec.HashToken(second))
	assert.Len(t, sec.HashToken(first), 64)
}

/*
TestUserRole checks the role hierarchy used by admin routes.
*/
func TestUserRole(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("root").AtLeast(sec.RoleUser))

	assert.Equal(t, []string{"user", "admin"}, sec.RoleNames())
}

/*
TestTokenService_RoundTrip signs a token and verifies its claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, "shopit.test")

	token, err := service.GenerateAccessToken("user-1", "A", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "A", claims.Name)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)

	remaining := claims.RemainingLifetime(time.Now())
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)
}

/*
TestTokenService_Rejects covers expired tokens, foreign keys and foreign issuers.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTestTokenService(t, "shopit.test")

	t.Run("expired", func(t *testing.T) {
		token, err := service.GenerateAccessToken("user-1", "A", "user", -time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("foreign_key", func(t *testing.T) {
		other := newTestTokenService(t, "shopit.test")
		token, err := other.GenerateAccessToken("user-1", "A", "user", time.Hour)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("foreign_issuer", func(t *testing.T) {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		signer := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "elsewhere")
		verifier := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "shopit.test")

		token, err := signer.GenerateAccessToken("user-1", "A", "user", time.Hour)
		require.NoError(t, err)

		_, err = verifier.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.VerifyToken("not-a-jwt")
		assert.Error(t, err)
	})
}

/*
TestRemainingLifetime_Expired returns zero instead of a negative duration.
*/
func TestRemainingLifetime_Expired(t *testing.T) {
	service := newTestTokenService(t, "shopit.test")
	token, err := service.GenerateAccessToken("user-1", "A", "user", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), claims.RemainingLifetime(time.Now().Add(2*time.Minute)))
	assert.Equal(t, time.Duration(0), (&sec.AuthClaims{}).RemainingLifetime(time.Now()))
}
