package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/prospectiq/leadscout/internal/domain/providers"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware provides HTTP response caching for read endpoints.
// Enrichment and SSE routes are never cached; the TTLs here are short
// because quota and contact state change with every run.
type CacheMiddleware struct {
	cache        providers.CacheProvider
	routeConfigs map[string]CacheConfig
}

// NewCacheMiddleware creates a new cache middleware
func NewCacheMiddleware(cache providers.CacheProvider) *CacheMiddleware {
	return &CacheMiddleware{
		cache: cache,
		routeConfigs: map[string]CacheConfig{
			"/api/accounts/": {TTLSeconds: 15, Enabled: true}, // quota + contact listings (prefix match)
			"/api/contacts/": {TTLSeconds: 30, Enabled: true},
		},
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only cache GET requests
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config := m.getRouteConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		cacheKey := m.generateCacheKey(r)

		if cached, err := m.cache.Get(r.Context(), cacheKey); err == nil {
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		// Cache miss - capture response
		w.Header().Set("X-Cache", "MISS")
		recorder := &cachingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		// Only cache successful JSON responses
		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("failed to store cached response")
			}
		}
	})
}

func (m *CacheMiddleware) getRouteConfig(path string) CacheConfig {
	// Streaming paths must never be cached even if they share a prefix
	if strings.HasPrefix(path, "/api/stream/") || strings.HasSuffix(path, "/enrich") {
		return CacheConfig{}
	}
	for prefix, config := range m.routeConfigs {
		if strings.HasPrefix(path, prefix) {
			return config
		}
	}
	return CacheConfig{}
}

func (m *CacheMiddleware) generateCacheKey(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("http:v1:%s", hex.EncodeToString(sum[:]))
}

// cachingResponseWriter buffers the body so it can be stored after the
// handler finishes
type cachingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *cachingResponseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *cachingResponseWriter) Write(data []byte) (int, error) {
	rw.body.Write(data)
	return rw.ResponseWriter.Write(data)
}
