package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenBlacklistRepository 记录已登出的 token，直到其自然过期。
type TokenBlacklistRepository interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

type redisTokenBlacklistRepository struct {
	redisClient *redis.Client
}

func NewTokenBlacklistRepository(redisClient *redis.Client) TokenBlacklistRepository {
	return &redisTokenBlacklistRepository{redisClient: redisClient}
}

func blacklistKey(tokenID string) string {
	return "token:blacklist:" + tokenID
}

func (r *redisTokenBlacklistRepository) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.redisClient.Set(ctx, blacklistKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (r *redisTokenBlacklistRepository) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.redisClient.Exists(ctx, blacklistKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}
