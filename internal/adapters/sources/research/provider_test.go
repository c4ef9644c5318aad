package research_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectiq/leadscout/internal/adapters/sources"
	"github.com/prospectiq/leadscout/internal/adapters/sources/research"
	"github.com/prospectiq/leadscout/internal/domain/entities"
)

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := c.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return value, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

func TestResearchProvider_Research(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		assert.Equal(t, "/company/research", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{
			"size":"51-200",
			"revenue":"$10M-$50M",
			"founded_year":2015,
			"description":"Industrial robotics",
			"executives":[
				{"name":"Ada Park","title":"CEO"},
				{"name":"","title":"ghost entry"},
				{"name":"Sam Lee","title":"VP Sales"}
			],
			"technologies":["go","postgres"]
		}`)
	}))
	defer server.Close()

	cache := sources.NewLookupCache(newMemoryCache(), 7)
	provider := research.NewProviderWithOptions("test-key", server.URL, 600, cache, nil)

	data, err := provider.Research(context.Background(), entities.Identity{CompanyName: "Acme Robotics"})

	require.NoError(t, err)
	require.NotNil(t, data)
	require.NotNil(t, data.Size)
	assert.Equal(t, "51-200", *data.Size)
	require.NotNil(t, data.FoundedYear)
	assert.Equal(t, 2015, *data.FoundedYear)
	// executives without a name are dropped
	require.Len(t, data.Executives, 2)
	assert.Equal(t, "Ada Park", data.Executives[0].Name)
	assert.Equal(t, []string{"go", "postgres"}, data.Technologies)
}

func TestResearchProvider_Research_SecondCallServedFromCache(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		fmt.Fprint(w, `{"size":"11-50"}`)
	}))
	defer server.Close()

	cache := sources.NewLookupCache(newMemoryCache(), 7)
	provider := research.NewProviderWithOptions("test-key", server.URL, 600, cache, nil)

	first, err := provider.Research(context.Background(), entities.Identity{CompanyName: "Acme Robotics"})
	require.NoError(t, err)

	second, err := provider.Research(context.Background(), entities.Identity{CompanyName: "acme robotics"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestResearchProvider_Research_NoCompanyIsEmptyNotError(t *testing.T) {
	provider := research.NewProviderWithOptions("test-key", "http://unused.invalid", 600, nil, nil)

	data, err := provider.Research(context.Background(), entities.Identity{Email: "jane@acme.example"})

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestResearchProvider_Research_UpstreamErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := research.NewProviderWithOptions("test-key", server.URL, 600, nil, nil)

	data, err := provider.Research(context.Background(), entities.Identity{CompanyName: "Acme Robotics"})

	require.Error(t, err)
	assert.Nil(t, data)
}
