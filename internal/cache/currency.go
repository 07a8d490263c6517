// Package cache keeps read-mostly reference data in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GregMSThompson/ledger-backend/internal/models"
)

const (
	currencyKeyPrefix = "ledger:currency:"
	currencyListKey   = "ledger:currencies"
)

type CurrencyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCurrencyCache(client *redis.Client, ttl time.Duration) *CurrencyCache {
	return &CurrencyCache{client: client, ttl: ttl}
}

// Get returns nil, nil on a miss.
func (c *CurrencyCache) Get(ctx context.Context, id string) (*models.Currency, error) {
	raw, err := c.client.Get(ctx, currencyKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cur models.Currency
	if err := json.Unmarshal(raw, &cur); err != nil {
		return nil, err
	}
	return &cur, nil
}

func (c *CurrencyCache) Set(ctx context.Context, cur *models.Currency) error {
	raw, err := json.Marshal(cur)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, currencyKeyPrefix+cur.CurrencyID, raw, c.ttl).Err()
}

// List returns nil, nil on a miss.
func (c *CurrencyCache) List(ctx context.Context) ([]*models.Currency, error) {
	raw, err := c.client.Get(ctx, currencyListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []*models.Currency
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *CurrencyCache) SetList(ctx context.Context, list []*models.Currency) error {
	if list == nil {
		list = []*models.Currency{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, currencyListKey, raw, c.ttl).Err()
}

// Invalidate drops the entry for id and the cached list.
func (c *CurrencyCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, currencyKeyPrefix+id, currencyListKey).Err()
}
