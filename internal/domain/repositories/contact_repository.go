package repositories

import (
	"context"

	"github.com/prospectiq/leadscout/internal/domain/entities"
)

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	// Create stores a new contact
	Create(ctx context.Context, contact *entities.Contact) error

	// GetByID retrieves a contact by ID
	GetByID(ctx context.Context, id string) (*entities.Contact, error)

	// UpdateStatus transitions the enrichment status of a contact
	UpdateStatus(ctx context.Context, id string, status entities.EnrichmentStatus) error

	// SaveProfile stores the merged profile and marks the contact completed
	SaveProfile(ctx context.Context, id string, profile *entities.EnrichmentResult) error

	// ListByAccount lists contacts belonging to an account
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*entities.Contact, error)
}
