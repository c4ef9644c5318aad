package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prospectiq/leadscout/internal/adapters/sources"
	"github.com/prospectiq/leadscout/internal/domain/entities"
	"github.com/prospectiq/leadscout/internal/domain/providers"
	"github.com/prospectiq/leadscout/pkg/normalize"
)

const (
	defaultSearchURL   = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	defaultDetailsURL  = "https://maps.googleapis.com/maps/api/place/details/json"
	defaultHTTPTimeout = 8 * time.Second
	maxReviews         = 5
	maxPhotos          = 6
)

// Provider implements the ReputationProvider using the Places APIs.
type Provider struct {
	apiKey     string
	httpClient *http.Client
	cache      *sources.LookupCache
	searchURL  string
	detailsURL string
}

var _ providers.ReputationProvider = (*Provider)(nil)

// NewProvider creates a new reputation lookup provider. timeoutSeconds
// bounds each upstream HTTP call; zero keeps the default.
func NewProvider(apiKey string, timeoutSeconds int, cache *sources.LookupCache) *Provider {
	timeout := defaultHTTPTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return NewProviderWithOptions(apiKey, cache, defaultSearchURL, defaultDetailsURL, &http.Client{Timeout: timeout})
}

// NewProviderWithOptions allows overriding base URLs and HTTP client (used for tests).
func NewProviderWithOptions(apiKey string, cache *sources.LookupCache, searchURL, detailsURL string, httpClient *http.Client) *Provider {
	if strings.TrimSpace(searchURL) == "" {
		searchURL = defaultSearchURL
	}
	if strings.TrimSpace(detailsURL) == "" {
		detailsURL = defaultDetailsURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Provider{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		searchURL:  searchURL,
		detailsURL: detailsURL,
	}
}

// Lookup fetches the public business listing for the identity's
// company. A missing company name yields (nil, nil): the source simply
// has nothing to say.
func (p *Provider) Lookup(ctx context.Context, identity entities.Identity) (*entities.ReputationData, error) {
	company := strings.TrimSpace(identity.CompanyName)
	if company == "" {
		return nil, nil
	}

	cacheKey := normalize.CompanyKey(company, identity.Website)
	if cached, ok := p.cache.Get(ctx, providers.SourceReputation, cacheKey); ok {
		var data entities.ReputationData
		if err := json.Unmarshal(cached, &data); err == nil {
			return &data, nil
		}
	}

	placeID, err := p.findPlace(ctx, company, identity.Phone)
	if err != nil {
		return nil, err
	}
	if placeID == "" {
		return nil, nil
	}

	data, err := p.fetchDetails(ctx, placeID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(data); err == nil {
		p.cache.Set(ctx, providers.SourceReputation, cacheKey, payload)
	}
	return data, nil
}

func (p *Provider) findPlace(ctx context.Context, company, phone string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("reputation api key is required")
	}

	query := company
	if strings.TrimSpace(phone) != "" {
		query = company + " " + strings.TrimSpace(phone)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("key", p.apiKey)

	var payload placeSearchResponse
	if err := p.doRequest(ctx, p.searchURL, params, &payload); err != nil {
		return "", err
	}
	if payload.Status == "ZERO_RESULTS" || len(payload.Results) == 0 {
		return "", nil
	}
	if payload.Status != "OK" {
		return "", fmt.Errorf("place search failed: %s", payload.Status)
	}
	return payload.Results[0].PlaceID, nil
}

func (p *Provider) fetchDetails(ctx context.Context, placeID string) (*entities.ReputationData, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "rating,user_ratings_total,reviews,photos")
	params.Set("key", p.apiKey)

	var payload placeDetailsResponse
	if err := p.doRequest(ctx, p.detailsURL, params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("place details failed: %s", payload.Status)
	}

	result := payload.Result
	data := &entities.ReputationData{}
	if result.Rating > 0 {
		rating := result.Rating
		data.Rating = &rating
	}
	if result.UserRatingsTotal > 0 {
		count := result.UserRatingsTotal
		data.ReviewCount = &count
	}
	for i, review := range result.Reviews {
		if i >= maxReviews {
			break
		}
		data.Reviews = append(data.Reviews, entities.Review{
			Author: review.AuthorName,
			Rating: review.Rating,
			Text:   review.Text,
		})
	}
	for i, photo := range result.Photos {
		if i >= maxPhotos {
			break
		}
		if photo.PhotoReference != "" {
			data.Photos = append(data.Photos, photo.PhotoReference)
		}
	}
	return data, nil
}

func (p *Provider) doRequest(ctx context.Context, baseURL string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build listing request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("listing request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode listing response: %w", err)
	}
	return nil
}

type placeSearchResponse struct {
	Status  string              `json:"status"`
	Results []placeSearchResult `json:"results"`
}

type placeSearchResult struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
}

type placeDetailsResponse struct {
	Status string             `json:"status"`
	Result placeDetailsResult `json:"result"`
}

type placeDetailsResult struct {
	Rating           float64       `json:"rating"`
	UserRatingsTotal int           `json:"user_ratings_total"`
	Reviews          []placeReview `json:"reviews"`
	Photos           []placePhoto  `json:"photos"`
}

type placeReview struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
}

type placePhoto struct {
	PhotoReference string `json:"photo_reference"`
}
