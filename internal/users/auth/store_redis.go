// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/shopit/internal/platform/constants"
)

// RedisRevocationStore implements RevocationStore using Redis keys with TTL.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a new Redis-backed RevocationStore.
func NewRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

/*
Revoke stores the token ID until the credential would have expired.

Description: A non-positive ttl means the credential is already dead, so
nothing is written.

Parameters:
  - context: context.Context
  - tokenID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisRevocationStore) Revoke(context context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := repository.client.Set(context, revokedTokenKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis_revoked_token_set_failed: %w", err)
	}

	return nil
}

/*
IsRevoked reports whether the token ID is on the denylist.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - bool: true when logged out
  - error: Connectivity errors
*/
func (repository *RedisRevocationStore) IsRevoked(context context.Context, tokenID string) (bool, error) {
	count, err := repository.client.Exists(context, revokedTokenKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_revoked_token_exists_failed: %w", err)
	}
	return count > 0, nil
}

func revokedTokenKey(tokenID string) string {
	return constants.RedisPrefixRevokedToken + tokenID
}
