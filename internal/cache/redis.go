package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	defaultBaseTTL = 15 * time.Minute
	maxJitter      = 5 * time.Minute
)

// RedisCache keeps cart views as JSON strings with a jittered TTL so that
// entries written together do not expire together.
type RedisCache struct {
	client  redis.Cmdable
	baseTTL time.Duration
}

func NewRedisCache(client redis.Cmdable) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: defaultBaseTTL,
	}
}

func (r *RedisCache) Get(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	data, err := r.client.Get(ctx, cacheKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return lines, nil
}

func (r *RedisCache) Set(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	ttl := r.baseTTL + rand.N(maxJitter)
	if err := r.client.Set(ctx, cacheKey(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cacheKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
