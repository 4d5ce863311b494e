package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
)

func TestStockKey(t *testing.T) {
	assert.Equal(t, "farmacia:stock:prod-1", stockKey("prod-1"))
}

func TestNewRedisStockCache_TTLPorDefecto(t *testing.T) {
	c := NewRedisStockCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), 0)
	assert.Equal(t, 5*time.Minute, c.ttl)
}

func TestRedisStockCache_ErrorSinServidor(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	c := NewRedisStockCache(client, time.Minute)
	ctx := context.Background()

	snap, ok, err := c.Get(ctx, "prod-1")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Nil(t, snap)

	err = c.Set(ctx, &entity.StockSnapshot{ProductID: "prod-1", Stock: 3})
	require.Error(t, err)
}
