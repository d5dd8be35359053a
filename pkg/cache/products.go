// Package cache is a fixed-TTL read-through cache for catalog reads on
// Redis. No eviction policy beyond the TTL.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aam-bd/autopartzone-api/models"
)

type Products struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewProducts connects to Redis. A nil return is valid everywhere a
// *Products is accepted; callers fall through to the database.
func NewProducts(addr string, ttl time.Duration) *Products {
	if addr == "" {
		return nil
	}
	return &Products{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (p *Products) Get(ctx context.Context, id uint) (*models.Product, bool) {
	if p == nil {
		return nil, false
	}
	data, err := p.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, false
	}
	return &product, true
}

func (p *Products) Set(ctx context.Context, product *models.Product) {
	if p == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	p.rdb.Set(ctx, productKey(product.ID), data, p.ttl)
}

// Invalidate drops cached copies after any stock or catalog mutation.
func (p *Products) Invalidate(ctx context.Context, ids ...uint) {
	if p == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	p.rdb.Del(ctx, keys...)
}
