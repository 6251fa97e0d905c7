// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides in-memory doubles of the auth storage and mail
// contracts for service and handler tests.
package authtest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/shopit/internal/platform/apperr"
	"github.com/taibuivan/shopit/internal/platform/mail"
	"github.com/taibuivan/shopit/internal/users/auth"
)

// # Users

// UserRepository is a map-backed [auth.UserRepository].
type UserRepository struct {
	mu    sync.Mutex
	users map[string]auth.Credentials

	// FailWith, when set, is returned by every method.
	FailWith error
}

// NewUserRepository returns an empty repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]auth.Credentials)}
}

var _ auth.UserRepository = (*UserRepository)(nil)

func notFound() error { return apperr.NotFound(auth.MsgUserNotFound) }

// Seed stores credentials as-is, bypassing uniqueness checks.
func (repository *UserRepository) Seed(credentials auth.Credentials) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.users[credentials.ID] = credentials
}

// Get returns a copy of the stored credentials for id.
func (repository *UserRepository) Get(id string) (auth.Credentials, bool) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	credentials, ok := repository.users[id]
	return credentials, ok
}

// Len reports the number of stored users.
func (repository *UserRepository) Len() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.users)
}

func (repository *UserRepository) emailTaken(email, exceptID string) bool {
	for id, stored := range repository.users {
		if id != exceptID && stored.Email == email {
			return true
		}
	}
	return false
}

func (repository *UserRepository) Create(_ context.Context, credentials *auth.Credentials) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.FailWith != nil {
		return repository.FailWith
	}
	if repository.emailTaken(credentials.Email, "") {
		return apperr.Conflict(auth.MsgEmailTaken, errors.New("duplicate email"))
	}
	repository.users[credentials.ID] = *credentials
	return nil
}

func (repository *UserRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	credentials, err := repository.FindCredentialsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &credentials.User, nil
}

func (repository *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	credentials, err := repository.FindCredentialsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &credentials.User, nil
}

func (repository *UserRepository) FindCredentialsByID(_ context.Context, id string) (*auth.Credentials, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.FailWith != nil {
		return nil, repository.FailWith
	}
	stored, ok := repository.users[id]
	if !ok {
		return nil, notFound()
	}
	return &stored, nil
}

func (repository *UserRepository) FindCredentialsByEmail(_ context.Context, email string) (*auth.Credentials, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.FailWith != nil {
		return nil, repository.FailWith
	}
	for _, stored := range repository.users {
		if stored.Email == email {
			found := stored
			return &found, nil
		}
	}
	return nil, notFound()
}

func (repository *UserRepository) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*auth.Credentials, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.FailWith != nil {
		return nil, repository.FailWith
	}
	for _, stored := range repository.users {
		if stored.Reset != nil && stored.Reset.TokenHash == tokenHash && stored.Reset.ExpiresAt.After(now) {
			found := stored
			return &found, nil
		}
	}
	return nil, notFound()
}

func (repository *UserRepository) List(_ context.Context) ([]auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.FailWith != nil {
		return nil, repository.FailWith
	}
	users := make([]auth.User, 0, len(repository.users))
	for _, stored := range repository.users {
		users = append(users, stored.User)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (repository *UserRepository) Update(_ context.Context, user *auth.User) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.FailWith != nil {
		return nil, repository.FailWith
	}
	stored, ok := repository.users[user.ID]
	if !ok {
		return nil, notFound()
	}
	if repository.emailTaken(user.Email, user.ID) {
		return nil, apperr.Conflict(auth.MsgEmailTaken, errors.New("duplicate email"))
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.Role = user.Role
	stored.Avatar = user.Avatar
	stored.UpdatedAt = time.Now().UTC()
	repository.users[user.ID] = stored
	updated := stored.User
	return &updated, nil
}

func (repository *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return repository.mutate(id, func(stored *auth.Credentials) {
		stored.PasswordHash = passwordHash
		stored.Reset = nil
	})
}

func (repository *UserRepository) SetPasswordReset(_ context.Context, id string, reset auth.PasswordReset) error {
	return repository.mutate(id, func(stored *auth.Credentials) { stored.Reset = &reset })
}

func (repository *UserRepository) ClearPasswordReset(_ context.Context, id string) error {
	return repository.mutate(id, func(stored *auth.Credentials) { stored.Reset = nil })
}

func (repository *UserRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.FailWith != nil {
		return repository.FailWith
	}
	if _, ok := repository.users[id]; !ok {
		return notFound()
	}
	delete(repository.users, id)
	return nil
}

func (repository *UserRepository) mutate(id string, apply func(*auth.Credentials)) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.FailWith != nil {
		return repository.FailWith
	}
	stored, ok := repository.users[id]
	if !ok {
		return notFound()
	}
	apply(&stored)
	repository.users[id] = stored
	return nil
}

// # Revocations

// RevocationStore is a map-backed [auth.RevocationStore] that ignores TTLs.
type RevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration

	// FailWith, when set, is returned by every method.
	FailWith error
}

// NewRevocationStore returns an empty denylist.
func NewRevocationStore() *RevocationStore {
	return &RevocationStore{revoked: make(map[string]time.Duration)}
}

var _ auth.RevocationStore = (*RevocationStore)(nil)

func (store *RevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.FailWith != nil {
		return store.FailWith
	}
	store.revoked[tokenID] = ttl
	return nil
}

func (store *RevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.FailWith != nil {
		return false, store.FailWith
	}
	_, ok := store.revoked[tokenID]
	return ok, nil
}

// TTL returns the lifetime tokenID was denylisted for.
func (store *RevocationStore) TTL(tokenID string) (time.Duration, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	ttl, ok := store.revoked[tokenID]
	return ttl, ok
}

// # Mail

// Mailer records every message and optionally fails.
type Mailer struct {
	mu   sync.Mutex
	sent []mail.Message

	// FailWith, when set, is returned by Send and nothing is recorded.
	FailWith error
}

var _ mail.Mailer = (*Mailer)(nil)

func (mailer *Mailer) Send(_ context.Context, message mail.Message) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if mailer.FailWith != nil {
		return mailer.FailWith
	}
	mailer.sent = append(mailer.sent, message)
	return nil
}

// Sent returns the delivered messages in order.
func (mailer *Mailer) Sent() []mail.Message {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	return append([]mail.Message(nil), mailer.sent...)
}
