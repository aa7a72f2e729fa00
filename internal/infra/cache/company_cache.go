package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/labdan/Dashboard-sub000/internal/domain/company"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "company:"

// DefaultTTL applies when the configured TTL is not positive
const DefaultTTL = 24 * time.Hour

// CompanyCache is a read-through Redis layer in front of a company.Repository.
// Only COMPLETE records are cached; Postgres stays authoritative and Redis
// errors degrade to a direct read.
type CompanyCache struct {
	next   company.Repository
	client redis.Cmdable
	ttl    time.Duration
}

// NewCompanyCache wraps next with a Redis cache
func NewCompanyCache(next company.Repository, client redis.Cmdable, ttl time.Duration) *CompanyCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CompanyCache{next: next, client: client, ttl: ttl}
}

// Key returns the Redis key for ticker
func Key(ticker string) string {
	return keyPrefix + ticker
}

// Get serves COMPLETE records from Redis, reading through on a miss
func (c *CompanyCache) Get(ctx context.Context, ticker string) (*company.Record, error) {
	raw, err := c.client.Get(ctx, Key(ticker)).Bytes()
	switch {
	case err == nil:
		rec, decodeErr := decode(raw)
		if decodeErr == nil && rec.IsComplete() {
			return rec, nil
		}
		log.Warn().Err(decodeErr).Str("ticker", ticker).Msg("Dropping unusable cached company record")
		c.evict(ctx, ticker)
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("ticker", ticker).Msg("Redis read failed, falling back to store")
	}

	rec, err := c.next.Get(ctx, ticker)
	if err != nil {
		return nil, err
	}
	c.store(ctx, rec)
	return rec, nil
}

// Create delegates; fresh records are never complete so nothing is cached
func (c *CompanyCache) Create(ctx context.Context, ticker, initialName string) (*company.Record, error) {
	return c.next.Create(ctx, ticker, initialName)
}

// Update delegates and refreshes the cached copy
func (c *CompanyCache) Update(ctx context.Context, ticker string, p company.Patch) (*company.Record, error) {
	rec, err := c.next.Update(ctx, ticker, p)
	if err != nil {
		return nil, err
	}
	if rec.IsComplete() {
		c.store(ctx, rec)
	} else {
		c.evict(ctx, ticker)
	}
	return rec, nil
}

// Ping checks the Redis connection
func (c *CompanyCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *CompanyCache) store(ctx context.Context, rec *company.Record) {
	if !rec.IsComplete() {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		log.Warn().Err(err).Str("ticker", rec.Ticker).Msg("Failed to encode company record")
		return
	}
	if err := c.client.Set(ctx, Key(rec.Ticker), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("ticker", rec.Ticker).Msg("Redis write failed")
	}
}

func (c *CompanyCache) evict(ctx context.Context, ticker string) {
	if err := c.client.Del(ctx, Key(ticker)).Err(); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("Redis delete failed")
	}
}

func decode(raw []byte) (*company.Record, error) {
	var rec company.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode cached record: %w", err)
	}
	return &rec, nil
}
