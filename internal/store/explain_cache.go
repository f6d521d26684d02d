package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const explainKeyPrefix = "decido:explain:"

func explainKey(term string) string {
	return explainKeyPrefix + strings.ToLower(strings.TrimSpace(term))
}

type explainCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewExplainCache(rdb *redis.Client, ttl time.Duration) *explainCache {
	return &explainCache{rdb: rdb, ttl: ttl}
}

// Get reports a miss as ("", false, nil).
func (c *explainCache) Get(ctx context.Context, term string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, explainKey(term)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *explainCache) Set(ctx context.Context, term, explanation string) error {
	return c.rdb.Set(ctx, explainKey(term), explanation, c.ttl).Err()
}
