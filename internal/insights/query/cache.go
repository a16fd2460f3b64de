package query

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/dcastano/brandpulse-backend/internal/daterange"
	"github.com/dcastano/brandpulse-backend/internal/insights/types"
	"github.com/dcastano/brandpulse-backend/pkg/metrics"
)

// cacheStore is the slice of the redis client the decorator needs.
type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

type cachedFetcher struct {
	inner   Fetcher
	cache   cacheStore
	ttl     time.Duration
	metrics *metrics.FetcherMetrics
}

// NewCachedFetcher wraps a fetcher with a read-through cache. Cache failures
// degrade to a plain fetch; the cache is never load-bearing.
func NewCachedFetcher(inner Fetcher, cache cacheStore, ttl time.Duration, m *metrics.FetcherMetrics) Fetcher {
	return &cachedFetcher{inner: inner, cache: cache, ttl: ttl, metrics: m}
}

func (c *cachedFetcher) BrandSummary(ctx context.Context, brand string, r daterange.Range) (types.SummaryRow, error) {
	key := c.cache.CacheKey(QueryBrandSummary, brand, r.StartISO(), r.EndISO())
	return lookup(ctx, c, key, QueryBrandSummary, brand, func() (types.SummaryRow, error) {
		return c.inner.BrandSummary(ctx, brand, r)
	})
}

func (c *cachedFetcher) CreatorRankings(ctx context.Context, brand string, r daterange.Range, limit int, managedOnly bool) ([]types.CreatorRow, error) {
	key := c.cache.CacheKey(QueryCreatorRankings, brand, r.StartISO(), r.EndISO(),
		strconv.Itoa(limit), strconv.FormatBool(managedOnly))
	return lookup(ctx, c, key, QueryCreatorRankings, brand, func() ([]types.CreatorRow, error) {
		return c.inner.CreatorRankings(ctx, brand, r, limit, managedOnly)
	})
}

func (c *cachedFetcher) ProductSummary(ctx context.Context, brand string, r daterange.Range, limit int) ([]types.ProductRow, error) {
	key := c.cache.CacheKey(QueryProductSummary, brand, r.StartISO(), r.EndISO(), strconv.Itoa(limit))
	return lookup(ctx, c, key, QueryProductSummary, brand, func() ([]types.ProductRow, error) {
		return c.inner.ProductSummary(ctx, brand, r, limit)
	})
}

func (c *cachedFetcher) VideoSummary(ctx context.Context, brand string, r daterange.Range, limit int) ([]types.VideoRow, error) {
	key := c.cache.CacheKey(QueryVideoSummary, brand, r.StartISO(), r.EndISO(), strconv.Itoa(limit))
	return lookup(ctx, c, key, QueryVideoSummary, brand, func() ([]types.VideoRow, error) {
		return c.inner.VideoSummary(ctx, brand, r, limit)
	})
}

func (c *cachedFetcher) DailyTrend(ctx context.Context, brand string, r daterange.Range) ([]types.TrendRow, error) {
	key := c.cache.CacheKey(QueryDailyTrend, brand, r.StartISO(), r.EndISO())
	return lookup(ctx, c, key, QueryDailyTrend, brand, func() ([]types.TrendRow, error) {
		return c.inner.DailyTrend(ctx, brand, r)
	})
}

func lookup[T any](ctx context.Context, c *cachedFetcher, key, query, brand string, fetch func() (T, error)) (T, error) {
	if raw, err := c.cache.Get(ctx, key); err == nil {
		var cached T
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			c.metrics.IncCacheHit(query, brand)
			return cached, nil
		}
	}

	result, err := fetch()
	if err != nil {
		return result, err
	}

	if encoded, err := json.Marshal(result); err == nil {
		_ = c.cache.Set(ctx, key, string(encoded), c.ttl)
	}
	return result, nil
}
