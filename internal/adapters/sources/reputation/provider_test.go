package reputation_test

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
	"github.com/prospectiq/leadscout/internal/adapters/sources/reputation"
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

func newTestServers(searchCalls, detailsCalls *int64) (*httptest.Server, *httptest.Server) {
	searchServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(searchCalls, 1)
		fmt.Fprint(w, `{"status":"OK","results":[{"place_id":"place-123","name":"Acme Robotics"}]}`)
	}))
	detailsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(detailsCalls, 1)
		fmt.Fprint(w, `{
			"status":"OK",
			"result":{
				"rating":4.6,
				"user_ratings_total":128,
				"reviews":[{"author_name":"Pat","rating":5,"text":"Great"}],
				"photos":[{"photo_reference":"photo-1"}]
			}
		}`)
	}))
	return searchServer, detailsServer
}

func TestReputationProvider_Lookup(t *testing.T) {
	var searchCalls, detailsCalls int64
	searchServer, detailsServer := newTestServers(&searchCalls, &detailsCalls)
	defer searchServer.Close()
	defer detailsServer.Close()

	cache := sources.NewLookupCache(newMemoryCache(), 7)
	provider := reputation.NewProviderWithOptions("test-key", cache, searchServer.URL, detailsServer.URL, nil)

	identity := entities.Identity{CompanyName: "Acme Robotics"}
	data, err := provider.Lookup(context.Background(), identity)

	require.NoError(t, err)
	require.NotNil(t, data)
	require.NotNil(t, data.Rating)
	assert.Equal(t, 4.6, *data.Rating)
	require.NotNil(t, data.ReviewCount)
	assert.Equal(t, 128, *data.ReviewCount)
	require.Len(t, data.Reviews, 1)
	assert.Equal(t, "Pat", data.Reviews[0].Author)
	assert.Equal(t, []string{"photo-1"}, data.Photos)
}

func TestReputationProvider_Lookup_SecondCallServedFromCache(t *testing.T) {
	var searchCalls, detailsCalls int64
	searchServer, detailsServer := newTestServers(&searchCalls, &detailsCalls)
	defer searchServer.Close()
	defer detailsServer.Close()

	cache := sources.NewLookupCache(newMemoryCache(), 7)
	provider := reputation.NewProviderWithOptions("test-key", cache, searchServer.URL, detailsServer.URL, nil)

	first, err := provider.Lookup(context.Background(), entities.Identity{CompanyName: "Acme Robotics"})
	require.NoError(t, err)

	// Equivalent query: different casing and spacing, same company.
	second, err := provider.Lookup(context.Background(), entities.Identity{CompanyName: "  acme   ROBOTICS "})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&searchCalls))
	assert.Equal(t, int64(1), atomic.LoadInt64(&detailsCalls))
}

func TestReputationProvider_Lookup_NoCompanyIsEmptyNotError(t *testing.T) {
	var searchCalls, detailsCalls int64
	searchServer, detailsServer := newTestServers(&searchCalls, &detailsCalls)
	defer searchServer.Close()
	defer detailsServer.Close()

	provider := reputation.NewProviderWithOptions("test-key", nil, searchServer.URL, detailsServer.URL, nil)

	data, err := provider.Lookup(context.Background(), entities.Identity{FirstName: "Jane"})

	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, int64(0), atomic.LoadInt64(&searchCalls))
}

func TestReputationProvider_Lookup_ZeroResults(t *testing.T) {
	searchServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
	}))
	defer searchServer.Close()

	provider := reputation.NewProviderWithOptions("test-key", nil, searchServer.URL, searchServer.URL, nil)

	data, err := provider.Lookup(context.Background(), entities.Identity{CompanyName: "No Such Company"})

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestReputationProvider_Lookup_UpstreamErrorSurfaces(t *testing.T) {
	searchServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer searchServer.Close()

	provider := reputation.NewProviderWithOptions("test-key", nil, searchServer.URL, searchServer.URL, nil)

	data, err := provider.Lookup(context.Background(), entities.Identity{CompanyName: "Acme Robotics"})

	require.Error(t, err)
	assert.Nil(t, data)
}
