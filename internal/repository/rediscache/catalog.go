// Package rediscache wraps a catalog with a Redis read-through cache. Cache
// failures degrade to the underlying catalog; Redis being down must never
// take the storefront down with it.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	"github.com/jwaldorf05/fhp-storefront/internal/repository"
)

const keyPrefix = "catalog:"

// Catalog decorates another catalog with caching. Only successful reads are
// cached; not-found and upstream errors always pass through.
type Catalog struct {
	next   repository.Catalog
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New wraps the given catalog.
func New(next repository.Catalog, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Catalog {
	return &Catalog{next: next, client: client, ttl: ttl, logger: logger}
}

// Ping verifies the Redis connection for readiness checks.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Catalog) get(ctx context.Context, key string, target any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "catalog cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		c.logger.WarnContext(ctx, "catalog cache entry corrupt, ignoring",
			slog.String("key", key),
		)
		return false
	}
	return true
}

func (c *Catalog) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "catalog cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

type productPage struct {
	Products []domain.Product `json:"products"`
	Next     string           `json:"next"`
}

// ListProducts caches per (query, first, after) triple.
func (c *Catalog) ListProducts(ctx context.Context, query string, first int, after string) ([]domain.Product, string, error) {
	key := fmt.Sprintf("%sproducts:q=%s:n=%d:a=%s", keyPrefix, query, first, after)

	var cached productPage
	if c.get(ctx, key, &cached) {
		return cached.Products, cached.Next, nil
	}

	products, next, err := c.next.ListProducts(ctx, query, first, after)
	if err != nil {
		return nil, "", err
	}
	c.set(ctx, key, productPage{Products: products, Next: next})
	return products, next, nil
}

// GetProductByHandle caches individual products by handle.
func (c *Catalog) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	key := keyPrefix + "product:" + handle

	var cached domain.Product
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	p, err := c.next.GetProductByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, p)
	return p, nil
}

// ListCollections caches the full collection list under one key.
func (c *Catalog) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	key := keyPrefix + "collections"

	var cached []domain.Collection
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	collections, err := c.next.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, collections)
	return collections, nil
}

type collectionEntry struct {
	Collection domain.Collection `json:"collection"`
	Products   []domain.Product  `json:"products"`
}

// GetCollectionByHandle caches a collection together with its products.
func (c *Catalog) GetCollectionByHandle(ctx context.Context, handle string) (*domain.Collection, []domain.Product, error) {
	key := keyPrefix + "collection:" + handle

	var cached collectionEntry
	if c.get(ctx, key, &cached) {
		return &cached.Collection, cached.Products, nil
	}

	col, products, err := c.next.GetCollectionByHandle(ctx, handle)
	if err != nil {
		return nil, nil, err
	}
	c.set(ctx, key, collectionEntry{Collection: *col, Products: products})
	return col, products, nil
}
