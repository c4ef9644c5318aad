package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/prospectiq/leadscout/internal/adapters/sources"
	"github.com/prospectiq/leadscout/internal/domain/entities"
	"github.com/prospectiq/leadscout/internal/domain/providers"
	"github.com/prospectiq/leadscout/pkg/normalize"
)

const (
	defaultBaseURL     = "https://api.serply.io/v1/search"
	defaultHTTPTimeout = 6 * time.Second
)

// Platforms queried for profile handles. All four are searched
// concurrently; a platform that errors is skipped, not fatal.
var platforms = []string{"linkedin", "x", "facebook", "instagram"}

// Provider implements the SocialProvider by running one site-scoped
// search per platform and joining the results.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *sources.LookupCache
}

var _ providers.SocialProvider = (*Provider)(nil)

// NewProvider creates a new social-profile search provider.
// timeoutSeconds bounds each platform search; zero keeps the default.
func NewProvider(apiKey string, timeoutSeconds int, cache *sources.LookupCache) *Provider {
	timeout := defaultHTTPTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return NewProviderWithOptions(apiKey, defaultBaseURL, cache, &http.Client{Timeout: timeout})
}

// NewProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewProviderWithOptions(apiKey, baseURL string, cache *sources.LookupCache, httpClient *http.Client) *Provider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Provider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		cache:      cache,
	}
}

// FindProfiles searches all platforms for the person's profiles and
// returns a map of platform name to profile URL. Requires a person
// name; without one it returns (nil, nil).
func (p *Provider) FindProfiles(ctx context.Context, identity entities.Identity) (map[string]string, error) {
	name := identity.FullName()
	if name == "" {
		return nil, nil
	}

	cacheKey := normalize.PersonKey(identity.FirstName, identity.LastName, identity.CompanyName)
	if cached, ok := p.cache.Get(ctx, providers.SourceSocial, cacheKey); ok {
		var profiles map[string]string
		if err := json.Unmarshal(cached, &profiles); err == nil {
			return profiles, nil
		}
	}

	if p.apiKey == "" {
		return nil, fmt.Errorf("social search api key is required")
	}

	profiles := make(map[string]string)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, platform := range platforms {
		g.Go(func() error {
			profileURL, err := p.searchPlatform(gctx, platform, name, identity.CompanyName)
			if err != nil {
				// One platform failing must not sink the others.
				log.Warn().Err(err).Str("platform", platform).Msg("social profile search failed")
				return nil
			}
			if profileURL == "" {
				return nil
			}
			mu.Lock()
			profiles[platform] = profileURL
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(profiles) == 0 {
		return nil, nil
	}

	if payload, err := json.Marshal(profiles); err == nil {
		p.cache.Set(ctx, providers.SourceSocial, cacheKey, payload)
	}
	return profiles, nil
}

func (p *Provider) searchPlatform(ctx context.Context, platform, name, company string) (string, error) {
	query := name
	if strings.TrimSpace(company) != "" {
		query = name + " " + strings.TrimSpace(company)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("site", platformDomain(platform))
	params.Set("num", "1")

	reqURL := fmt.Sprintf("%s?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build social search request: %w", err)
	}
	req.Header.Set("X-Api-Key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("social search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("social search returned status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode social search response: %w", err)
	}

	if len(payload.Results) == 0 {
		return "", nil
	}
	return payload.Results[0].Link, nil
}

func platformDomain(platform string) string {
	switch platform {
	case "linkedin":
		return "linkedin.com/in"
	case "x":
		return "x.com"
	case "facebook":
		return "facebook.com"
	case "instagram":
		return "instagram.com"
	default:
		return platform + ".com"
	}
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}
