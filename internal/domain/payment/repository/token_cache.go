package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache indexes match tokens to payment ids so bank-transfer webhooks
// resolve without a table scan. Best effort only; the database remains the
// source of truth and the fallback lookup path.
type TokenCache interface {
	Set(ctx context.Context, tok, paymentID string, ttl time.Duration) error
	Get(ctx context.Context, tok string) (string, error)
}

const tokenKeyPrefix = "payment:token:"

type redisTokenCache struct {
	rdb *redis.Client
}

func NewTokenCache(rdb *redis.Client) TokenCache {
	return &redisTokenCache{rdb: rdb}
}

func (c *redisTokenCache) Set(ctx context.Context, tok, paymentID string, ttl time.Duration) error {
	return c.rdb.Set(ctx, tokenKeyPrefix+tok, paymentID, ttl).Err()
}

// Get returns the payment id for a token, or "" on a miss.
func (c *redisTokenCache) Get(ctx context.Context, tok string) (string, error) {
	val, err := c.rdb.Get(ctx, tokenKeyPrefix+tok).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
