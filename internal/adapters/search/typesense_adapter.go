package search

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/prospectiq/leadscout/internal/domain/entities"
	tsclient "github.com/prospectiq/leadscout/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter indexes enriched profiles so completed contacts are
// searchable by name, company, and generated summary. Indexing is
// best-effort: the orchestrator never fails a run over it.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(tsclient.ProfilesCollection).Retrieve(ctx)
	if err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: tsclient.ProfilesCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "account_id", Type: "string", Facet: pointer.True()},
			{Name: "name", Type: "string"},
			{Name: "company_name", Type: "string"},
			{Name: "summary", Type: "string", Optional: pointer.True()},
			{Name: "technologies", Type: "string[]", Optional: pointer.True()},
			{Name: "enriched_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("enriched_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

// IndexProfile upserts one enriched contact into the collection
func (a *TypesenseAdapter) IndexProfile(ctx context.Context, contact *entities.Contact) error {
	if contact == nil || contact.Profile == nil {
		return nil
	}

	document := map[string]interface{}{
		"id":           contact.ID,
		"account_id":   contact.AccountID,
		"name":         contact.Identity.FullName(),
		"company_name": contact.Identity.CompanyName,
		"enriched_at":  time.Now().Unix(),
	}
	if contact.Profile.Summary != nil {
		document["summary"] = contact.Profile.Summary.Summary
	}
	if contact.Profile.Company != nil && len(contact.Profile.Company.Technologies) > 0 {
		document["technologies"] = contact.Profile.Company.Technologies
	}

	_, err := a.client.Client().Collection(tsclient.ProfilesCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index enriched profile: %w", err)
	}
	return nil
}

// Search queries enriched profiles within an account
func (a *TypesenseAdapter) Search(ctx context.Context, accountID, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}

	params := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name,company_name,summary"),
		FilterBy: pointer.String(fmt.Sprintf("account_id:=%s", accountID)),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.ProfilesCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search enriched profiles: %w", err)
	}

	var ids []string
	if result.Hits != nil {
		for _, hit := range *result.Hits {
			if hit.Document == nil {
				continue
			}
			if id, ok := (*hit.Document)["id"].(string); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}
