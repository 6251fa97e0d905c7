// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/shopit/internal/platform/sec"
	"github.com/taibuivan/shopit/internal/users/auth"
	"github.com/taibuivan/shopit/pkg/uuid"
)

// Issuer is the JWT issuer used by test token services.
const Issuer = "shopit.test"

var (
	keyOnce    sync.Once
	signingKey *rsa.PrivateKey
)

// TokenService returns an RS256 token service backed by a per-process key.
func TokenService() *sec.TokenService {
	keyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		signingKey = key
	})
	return sec.NewTokenServiceFromKeys(signingKey, &signingKey.PublicKey, Issuer)
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewUser builds stored credentials with a bcrypt hash of password.
func NewUser(name, email, password string, role sec.UserRole) auth.Credentials {
	hash, err := sec.HashPassword(password)
	if err != nil {
		panic(err)
	}
	now := time.Now().UTC()
	return auth.Credentials{
		User: auth.User{
			ID:        uuid.New(),
			Name:      name,
			Email:     email,
			Role:      role,
			Avatar:    auth.PlaceholderAvatar,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: hash,
	}
}
