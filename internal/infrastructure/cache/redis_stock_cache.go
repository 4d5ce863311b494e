package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/application/inventory"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/pkg/config"
	"github.com/redis/go-redis/v9"
)

var _ inventory.StockCache = (*RedisStockCache)(nil)

const keyPrefix = "farmacia:stock:"

// RedisStockCache guarda la última conciliación por producto como JSON con TTL.
type RedisStockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return client, nil
}

// NewRedisStockCache construye la caché sobre un cliente existente; el llamador lo cierra.
func NewRedisStockCache(client *redis.Client, ttl time.Duration) *RedisStockCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStockCache{client: client, ttl: ttl}
}

func stockKey(productID string) string {
	return keyPrefix + productID
}

// Get devuelve ok=false si no hay entrada.
func (c *RedisStockCache) Get(ctx context.Context, productID string) (*entity.StockSnapshot, bool, error) {
	data, err := c.client.Get(ctx, stockKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("leer caché de stock: %w", err)
	}
	var snap entity.StockSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("decodificar caché de stock: %w", err)
	}
	return &snap, true, nil
}

// Set escribe la conciliación con el TTL configurado.
func (c *RedisStockCache) Set(ctx context.Context, snap *entity.StockSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("codificar caché de stock: %w", err)
	}
	if err := c.client.Set(ctx, stockKey(snap.ProductID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("escribir caché de stock: %w", err)
	}
	return nil
}

// Invalidate borra la entrada de un producto.
func (c *RedisStockCache) Invalidate(ctx context.Context, productID string) error {
	return c.client.Del(ctx, stockKey(productID)).Err()
}
