package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client), mr
}

func sampleLines(sessionID string) []domain.CartLine {
	return []domain.CartLine{
		{
			CartItem: domain.CartItem{ID: "item-1", SessionID: sessionID, ProductID: "p1", Quantity: 2},
			Product:  domain.Product{ID: "p1", NameEn: "Arnica", NameHe: "ארניקה", Price: decimal.RequireFromString("150.00"), InStock: true},
		},
	}
}

func TestGet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)
	sessionID := "session-abc"

	raw, err := json.Marshal(sampleLines(sessionID))
	require.NoError(t, err)
	require.NoError(t, mr.Set(cacheKey(sessionID), string(raw)))

	lines, err := cache.Get(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "ארניקה", lines[0].Product.NameHe)
	assert.Equal(t, "150.00", lines[0].Product.Price.StringFixed(2))
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	lines, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, lines)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("s1"), `[{"id":`))

	_, err := cache.Get(context.Background(), "s1")
	require.ErrorContains(t, err, "unmarshal cart failed")
}

func TestGet_BackendDown(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "s1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_RoundTrip(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "s2", sampleLines("s2")))

	stored, err := mr.Get(cacheKey("s2"))
	require.NoError(t, err)
	assert.Contains(t, stored, `"price":"150.00"`)

	lines, err := cache.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, sampleLines("s2")[0].CartItem, lines[0].CartItem)
}

func TestSet_EmptyCartIsCached(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "empty", nil))

	stored, err := mr.Get(cacheKey("empty"))
	require.NoError(t, err)
	assert.Equal(t, "[]", stored)

	lines, err := cache.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestSet_WithTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), "s3", sampleLines("s3")))

	ttl := mr.TTL(cacheKey("s3"))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute, "TTL should be at least base TTL")
	assert.Less(t, ttl, 20*time.Minute, "TTL should be base + max jitter")
}

func TestDelete_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("s4"), "[]"))

	require.NoError(t, cache.Delete(context.Background(), "s4"))
	assert.False(t, mr.Exists(cacheKey("s4")))
}

func TestDelete_NonExistentKey(t *testing.T) {
	cache, _ := setupTestRedis(t)
	assert.NoError(t, cache.Delete(context.Background(), "nonexistent"))
}

func TestNop_AlwaysMisses(t *testing.T) {
	var c CartCache = Nop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "s", sampleLines("s")))
	_, err := c.Get(ctx, "s")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Delete(ctx, "s"))
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "cart:test123", cacheKey("test123"))
}
