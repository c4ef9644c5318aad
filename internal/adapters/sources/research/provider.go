package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/prospectiq/leadscout/internal/adapters/sources"
	"github.com/prospectiq/leadscout/internal/domain/entities"
	"github.com/prospectiq/leadscout/internal/domain/providers"
	"github.com/prospectiq/leadscout/pkg/normalize"
)

const (
	defaultBaseURL     = "https://api.perplexity.ai"
	defaultHTTPTimeout = 9 * time.Second
)

// Provider implements the ResearchProvider against a deep-research API.
// This is the premium source: a run that received data from it is
// billed with the premium flag set.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *sources.LookupCache
	limiter    *rate.Limiter
}

var _ providers.ResearchProvider = (*Provider)(nil)

// NewProvider creates a new deep-research provider. timeoutSeconds
// bounds each upstream HTTP call; zero keeps the default.
func NewProvider(apiKey, baseURL string, timeoutSeconds, rateLimitRPM int, cache *sources.LookupCache) *Provider {
	timeout := defaultHTTPTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return NewProviderWithOptions(apiKey, baseURL, rateLimitRPM, cache, &http.Client{Timeout: timeout})
}

// NewProviderWithOptions allows overriding the HTTP client (used for tests).
func NewProviderWithOptions(apiKey, baseURL string, rateLimitRPM int, cache *sources.LookupCache, httpClient *http.Client) *Provider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if rateLimitRPM <= 0 {
		rateLimitRPM = 30
	}
	return &Provider{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Limit(float64(rateLimitRPM)/60.0), 3),
	}
}

// Research fetches structured company intelligence for the identity's
// company. A missing company name yields (nil, nil).
func (p *Provider) Research(ctx context.Context, identity entities.Identity) (*entities.CompanyData, error) {
	company := strings.TrimSpace(identity.CompanyName)
	if company == "" {
		return nil, nil
	}

	cacheKey := normalize.CompanyKey(company, identity.Website)
	if cached, ok := p.cache.Get(ctx, providers.SourceResearch, cacheKey); ok {
		var data entities.CompanyData
		if err := json.Unmarshal(cached, &data); err == nil {
			return &data, nil
		}
	}

	if p.apiKey == "" {
		return nil, fmt.Errorf("research api key is required")
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqBody := researchRequest{
		Company: company,
		Website: strings.TrimSpace(identity.Website),
		Fields: []string{
			"size", "revenue", "funding", "founded_year", "description",
			"founders", "executives", "competitors", "technologies",
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/company/research", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build research request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("research request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("research request returned status %d", resp.StatusCode)
	}

	var payload researchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode research response: %w", err)
	}

	data := payload.toCompanyData()
	if raw, err := json.Marshal(data); err == nil {
		p.cache.Set(ctx, providers.SourceResearch, cacheKey, raw)
	}
	return data, nil
}

type researchRequest struct {
	Company string   `json:"company"`
	Website string   `json:"website,omitempty"`
	Fields  []string `json:"fields"`
}

type researchResponse struct {
	Size         string              `json:"size"`
	Revenue      string              `json:"revenue"`
	Funding      string              `json:"funding"`
	FoundedYear  int                 `json:"founded_year"`
	Description  string              `json:"description"`
	Founders     []string            `json:"founders"`
	Executives   []researchExecutive `json:"executives"`
	Competitors  []string            `json:"competitors"`
	Technologies []string            `json:"technologies"`
}

type researchExecutive struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func (r *researchResponse) toCompanyData() *entities.CompanyData {
	data := &entities.CompanyData{
		Founders:     r.Founders,
		Competitors:  r.Competitors,
		Technologies: r.Technologies,
	}
	if r.Size != "" {
		data.Size = strPtr(r.Size)
	}
	if r.Revenue != "" {
		data.Revenue = strPtr(r.Revenue)
	}
	if r.Funding != "" {
		data.Funding = strPtr(r.Funding)
	}
	if r.FoundedYear > 0 {
		year := r.FoundedYear
		data.FoundedYear = &year
	}
	if r.Description != "" {
		data.Description = strPtr(r.Description)
	}
	for _, exec := range r.Executives {
		if strings.TrimSpace(exec.Name) == "" {
			continue
		}
		data.Executives = append(data.Executives, entities.Executive{
			Name:  exec.Name,
			Title: exec.Title,
		})
	}
	return data
}

func strPtr(s string) *string {
	return &s
}
