package social_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectiq/leadscout/internal/adapters/sources/social"
	"github.com/prospectiq/leadscout/internal/domain/entities"
)

func TestSocialProvider_FindProfiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		site := r.URL.Query().Get("site")
		switch site {
		case "linkedin.com/in":
			fmt.Fprint(w, `{"results":[{"link":"https://linkedin.com/in/janedoe","title":"Jane Doe"}]}`)
		case "x.com":
			fmt.Fprint(w, `{"results":[{"link":"https://x.com/janedoe","title":"Jane Doe"}]}`)
		default:
			fmt.Fprint(w, `{"results":[]}`)
		}
	}))
	defer server.Close()

	provider := social.NewProviderWithOptions("test-key", server.URL, nil, nil)

	profiles, err := provider.FindProfiles(context.Background(), entities.Identity{
		FirstName:   "Jane",
		LastName:    "Doe",
		CompanyName: "Acme Robotics",
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"linkedin": "https://linkedin.com/in/janedoe",
		"x":        "https://x.com/janedoe",
	}, profiles)
}

func TestSocialProvider_FindProfiles_PlatformFailureIsSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("site") == "x.com" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("site") == "linkedin.com/in" {
			fmt.Fprint(w, `{"results":[{"link":"https://linkedin.com/in/janedoe"}]}`)
			return
		}
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer server.Close()

	provider := social.NewProviderWithOptions("test-key", server.URL, nil, nil)

	profiles, err := provider.FindProfiles(context.Background(), entities.Identity{
		FirstName: "Jane",
		LastName:  "Doe",
	})

	// One platform erroring never fails the whole search.
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"linkedin": "https://linkedin.com/in/janedoe"}, profiles)
}

func TestSocialProvider_FindProfiles_NoNameIsEmptyNotError(t *testing.T) {
	provider := social.NewProviderWithOptions("test-key", "http://unused.invalid", nil, nil)

	profiles, err := provider.FindProfiles(context.Background(), entities.Identity{
		CompanyName: "Acme Robotics",
	})

	require.NoError(t, err)
	assert.Nil(t, profiles)
}

func TestSocialProvider_FindProfiles_NoHitsReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer server.Close()

	provider := social.NewProviderWithOptions("test-key", server.URL, nil, nil)

	profiles, err := provider.FindProfiles(context.Background(), entities.Identity{
		FirstName: "Jane",
		LastName:  "Doe",
	})

	require.NoError(t, err)
	assert.Nil(t, profiles)
}
