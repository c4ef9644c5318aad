package sources

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/prospectiq/leadscout/internal/domain/providers"
	"github.com/prospectiq/leadscout/internal/infrastructure/observability"
	"github.com/prospectiq/leadscout/pkg/normalize"
)

const secondsPerDay = 60 * 60 * 24

// LookupCache wraps a CacheProvider with the lookup-key scheme shared
// by all source adapters: keys are namespaced per source and built from
// the normalized query, so equivalent queries collide deterministically
// and no two sources can overwrite each other. Cache failures are
// downgraded to misses; a broken cache must never fail an enrichment.
type LookupCache struct {
	cache      providers.CacheProvider
	ttlSeconds int
	metrics    *observability.Metrics
}

// NewLookupCache creates a lookup cache with the given TTL in days.
// A nil provider yields a cache that always misses.
func NewLookupCache(cache providers.CacheProvider, ttlDays int) *LookupCache {
	if ttlDays <= 0 {
		ttlDays = 14
	}
	return NewLookupCacheWithTTL(cache, ttlDays*secondsPerDay)
}

// NewLookupCacheWithTTL creates a lookup cache with a TTL in seconds.
func NewLookupCacheWithTTL(cache providers.CacheProvider, ttlSeconds int) *LookupCache {
	if ttlSeconds <= 0 {
		ttlSeconds = 14 * secondsPerDay
	}
	return &LookupCache{cache: cache, ttlSeconds: ttlSeconds}
}

// SetMetrics configures hit/miss counters
func (c *LookupCache) SetMetrics(metrics *observability.Metrics) {
	if c != nil {
		c.metrics = metrics
	}
}

// Get returns the cached payload for a source/query pair, or ok=false
// on miss, expiry, or cache error.
func (c *LookupCache) Get(ctx context.Context, source, query string) ([]byte, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}

	payload, err := c.cache.Get(ctx, c.key(source, query))
	if err != nil || len(payload) == 0 {
		c.recordLookup(ctx, source, false)
		return nil, false
	}
	c.recordLookup(ctx, source, true)
	return payload, true
}

// Set stores a fetched payload under the normalized source/query key.
// Errors are logged and swallowed.
func (c *LookupCache) Set(ctx context.Context, source, query string, payload []byte) {
	if c == nil || c.cache == nil || len(payload) == 0 {
		return
	}

	if err := c.cache.Set(ctx, c.key(source, query), payload, c.ttlSeconds); err != nil {
		log.Warn().Err(err).Str("source", source).Msg("failed to store lookup in cache")
	}
}

func (c *LookupCache) recordLookup(ctx context.Context, source string, hit bool) {
	if c.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	if hit {
		c.metrics.CacheHitCount.Add(ctx, 1, attrs)
		return
	}
	c.metrics.CacheMissCount.Add(ctx, 1, attrs)
}

func (c *LookupCache) key(source, query string) string {
	sum := sha256.Sum256([]byte(normalize.QueryKey(query)))
	return "lookup:v1:" + source + ":" + hex.EncodeToString(sum[:])
}
