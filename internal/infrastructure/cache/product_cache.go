package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domain "inventorypos/internal/domain/product"
	"inventorypos/internal/observability"

	"github.com/go-redis/redis/v8"
)

const (
	productKeyPrefix = "product:"
	productTTL       = 5 * time.Minute
)

// NewRedisClient dials Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	return client, nil
}

// ProductCache is a read-through decorator over a product repository:
// GetByID serves from Redis when possible and backfills asynchronously on
// a miss; every mutation invalidates the cached entry after the inner
// write. List/count reads pass through uncached.
type ProductCache struct {
	inner  domain.Repository
	client *redis.Client
	log    observability.Logger
}

func NewProductCache(inner domain.Repository, client *redis.Client, log observability.Logger) *ProductCache {
	if log == nil {
		log = observability.NopLogger()
	}
	return &ProductCache{inner: inner, client: client, log: log.With(observability.F("component", "product_cache"))}
}

func key(id string) string { return productKeyPrefix + id }

func (c *ProductCache) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	raw, err := c.client.Get(ctx, key(id)).Result()
	if err == nil {
		var p domain.Product
		if unmarshalErr := json.Unmarshal([]byte(raw), &p); unmarshalErr == nil {
			return &p, nil
		}
		// Corrupt entry; drop it and fall through to the store.
		c.client.Del(ctx, key(id))
	} else if err != redis.Nil {
		c.log.Warn("cache_read_failed", observability.F("error", err.Error()))
	}

	p, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if raw, err := json.Marshal(p); err == nil {
			c.client.Set(bg, key(p.ID), raw, productTTL)
		}
	}()

	return p, nil
}

func (c *ProductCache) Insert(ctx context.Context, p *domain.Product) error {
	return c.inner.Insert(ctx, p)
}

func (c *ProductCache) ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Product, error) {
	return c.inner.ListByOwner(ctx, ownerEmail)
}

func (c *ProductCache) CountByOwner(ctx context.Context, ownerEmail string) (int64, error) {
	return c.inner.CountByOwner(ctx, ownerEmail)
}

func (c *ProductCache) ReplaceByID(ctx context.Context, id string, f domain.Fields) error {
	if err := c.inner.ReplaceByID(ctx, id, f); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *ProductCache) DecrementStock(ctx context.Context, id string, amount int) (int, error) {
	n, err := c.inner.DecrementStock(ctx, id, amount)
	if err != nil {
		return n, err
	}
	c.invalidate(ctx, id)
	return n, nil
}

func (c *ProductCache) IncrementSaleCount(ctx context.Context, id string) error {
	if err := c.inner.IncrementSaleCount(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *ProductCache) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *ProductCache) invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		c.log.Warn("cache_invalidate_failed",
			observability.F("product_id", id),
			observability.F("error", err.Error()),
		)
	}
}
