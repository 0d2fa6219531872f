package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/tourledger/config"
	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      redis.Cmdable
	productsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, productsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		productsTTL: productsTTL,
	}
}

// NewRedisCacheWithClient wraps an existing client, e.g. a cluster or ring.
func NewRedisCacheWithClient(client redis.Cmdable, productsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, productsTTL: productsTTL}
}

// GetProducts returns nil, nil on a cache miss.
func (c *RedisCache) GetProducts(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, productsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *RedisCache) SetProducts(ctx context.Context, products []domain.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productsKey(), payload, c.productsTTL).Err()
}

func (c *RedisCache) InvalidateProducts(ctx context.Context) error {
	return c.client.Del(ctx, productsKey()).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func productsKey() string {
	return "cache:catalog:products"
}
