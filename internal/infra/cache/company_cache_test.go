package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/labdan/Dashboard-sub000/internal/domain/company"
	"github.com/labdan/Dashboard-sub000/internal/domain/company/companytest"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements the subset of redis.Cmdable the cache uses
type fakeRedis struct {
	redis.Cmdable
	data    map[string]string
	ttls    map[string]time.Duration
	failAll bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

var errRedisDown = errors.New("redis down")

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failAll {
		return redis.NewStringResult("", errRedisDown)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if f.failAll {
		return redis.NewStatusResult("", errRedisDown)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.failAll {
		return redis.NewIntResult(0, errRedisDown)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Ping(_ context.Context) *redis.StatusCmd {
	if f.failAll {
		return redis.NewStatusResult("", errRedisDown)
	}
	return redis.NewStatusResult("PONG", nil)
}

func completeRecord(ticker string) company.Record {
	return company.Record{Ticker: ticker, Name: company.StringPtr("Apple Inc."), LogoURL: "https://x/apple.png"}
}

func TestCompanyCache_ReadThroughCachesCompleteOnly(t *testing.T) {
	ctx := context.Background()
	store := companytest.NewStore(completeRecord("AAPL_US"), company.Record{Ticker: "MSFT_US", Name: company.StringPtr("Microsoft")})
	rdb := newFakeRedis()
	c := NewCompanyCache(store, rdb, time.Hour)

	rec, err := c.Get(ctx, "AAPL_US")
	require.NoError(t, err)
	assert.True(t, rec.IsComplete())
	assert.Contains(t, rdb.data, Key("AAPL_US"))
	assert.Equal(t, time.Hour, rdb.ttls[Key("AAPL_US")])

	// second read is served by redis
	_, err = c.Get(ctx, "AAPL_US")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Gets)

	_, err = c.Get(ctx, "MSFT_US")
	require.NoError(t, err)
	assert.NotContains(t, rdb.data, Key("MSFT_US"))
}

func TestCompanyCache_NotFoundPassesThrough(t *testing.T) {
	c := NewCompanyCache(companytest.NewStore(), newFakeRedis(), 0)

	_, err := c.Get(context.Background(), "NOPE")
	assert.ErrorIs(t, err, company.ErrNotFound)
	assert.Equal(t, DefaultTTL, c.ttl)
}

func TestCompanyCache_RedisDownFallsBack(t *testing.T) {
	store := companytest.NewStore(completeRecord("AAPL_US"))
	rdb := newFakeRedis()
	rdb.failAll = true
	c := NewCompanyCache(store, rdb, time.Hour)

	rec, err := c.Get(context.Background(), "AAPL_US")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", rec.DisplayName())
	assert.Error(t, c.Ping(context.Background()))
}

func TestCompanyCache_CorruptEntryIsEvicted(t *testing.T) {
	store := companytest.NewStore(completeRecord("AAPL_US"))
	rdb := newFakeRedis()
	rdb.data[Key("AAPL_US")] = "{not json"
	c := NewCompanyCache(store, rdb, time.Hour)

	rec, err := c.Get(context.Background(), "AAPL_US")
	require.NoError(t, err)
	assert.True(t, rec.IsComplete())

	var cached company.Record
	require.NoError(t, json.Unmarshal([]byte(rdb.data[Key("AAPL_US")]), &cached))
	assert.Equal(t, "https://x/apple.png", cached.LogoURL)
}

func TestCompanyCache_UpdateRefreshesEntry(t *testing.T) {
	ctx := context.Background()
	store := companytest.NewStore()
	rdb := newFakeRedis()
	c := NewCompanyCache(store, rdb, time.Hour)

	_, err := c.Create(ctx, "AAPL_US", "Apple Inc")
	require.NoError(t, err)
	assert.Empty(t, rdb.data)

	_, err = c.Update(ctx, "AAPL_US", company.Patch{Name: company.StringPtr("Apple Inc.")})
	require.NoError(t, err)
	assert.Empty(t, rdb.data)

	rec, err := c.Update(ctx, "AAPL_US", company.Patch{LogoURL: company.StringPtr("https://x/apple.png")})
	require.NoError(t, err)
	assert.True(t, rec.IsComplete())
	assert.Contains(t, rdb.data, Key("AAPL_US"))
}
