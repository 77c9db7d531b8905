// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
)

// RedisResetTokenRepository implements ResetTokenRepository using Redis.
type RedisResetTokenRepository struct {
	client redis.Cmdable
}

// NewResetTokenRepository creates a new Redis-backed ResetTokenRepository.
func NewResetTokenRepository(client redis.Cmdable) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

func resetTokenKey(digest string) string {
	return constants.RedisPrefixResetToken + digest
}

/*
Set stores a reset token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - digest: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisResetTokenRepository) Set(context context.Context, digest string, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, resetTokenKey(digest), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves the userID for a given token digest.

Returns apperr.NotFound if the token is absent or expired.
*/
func (repository *RedisResetTokenRepository) Get(context context.Context, digest string) (string, error) {
	userID, err := repository.client.Get(context, resetTokenKey(digest)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound(MsgResetTokenInvalid)
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}
	return userID, nil
}

/*
Delete removes the token from Redis.
*/
func (repository *RedisResetTokenRepository) Delete(context context.Context, digest string) error {
	if err := repository.client.Del(context, resetTokenKey(digest)).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}
	return nil
}
