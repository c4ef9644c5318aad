package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/prospectiq/leadscout/internal/domain/entities"
	"github.com/prospectiq/leadscout/internal/domain/repositories"
	"github.com/prospectiq/leadscout/internal/infrastructure/clients/postgres"
	apperrors "github.com/prospectiq/leadscout/pkg/errors"
)

// ContactAdapter implements the ContactRepository interface
type ContactAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewContactAdapter creates a new contact adapter
func NewContactAdapter(client *postgres.Client) repositories.ContactRepository {
	return &ContactAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a new contact
func (a *ContactAdapter) Create(ctx context.Context, contact *entities.Contact) error {
	query, args, err := a.db.Insert("contacts").Rows(goqu.Record{
		"id":           contact.ID,
		"account_id":   contact.AccountID,
		"first_name":   contact.Identity.FirstName,
		"last_name":    contact.Identity.LastName,
		"company_name": contact.Identity.CompanyName,
		"email":        contact.Identity.Email,
		"phone":        contact.Identity.Phone,
		"website":      contact.Identity.Website,
		"status":       string(contact.Status),
		"created_at":   contact.CreatedAt,
		"updated_at":   contact.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build contact insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create contact", err)
	}
	return nil
}

// GetByID retrieves a contact by ID
func (a *ContactAdapter) GetByID(ctx context.Context, id string) (*entities.Contact, error) {
	query, args, err := a.db.Select(
		"id", "account_id", "first_name", "last_name", "company_name",
		"email", "phone", "website", "status", "profile", "created_at", "updated_at",
	).From("contacts").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build contact query", err)
	}

	contact := &entities.Contact{}
	var status string
	var profileRaw []byte

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&contact.ID,
		&contact.AccountID,
		&contact.Identity.FirstName,
		&contact.Identity.LastName,
		&contact.Identity.CompanyName,
		&contact.Identity.Email,
		&contact.Identity.Phone,
		&contact.Identity.Website,
		&status,
		&profileRaw,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("contact %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get contact", err)
	}

	contact.Status = entities.EnrichmentStatus(status)
	if len(profileRaw) > 0 {
		profile := &entities.EnrichmentResult{}
		if err := json.Unmarshal(profileRaw, profile); err != nil {
			return nil, apperrors.NewInternalError("failed to decode contact profile", err)
		}
		contact.Profile = profile
	}
	return contact, nil
}

// UpdateStatus transitions the enrichment status of a contact
func (a *ContactAdapter) UpdateStatus(ctx context.Context, id string, status entities.EnrichmentStatus) error {
	query, args, err := a.db.Update("contacts").Set(goqu.Record{
		"status":     string(status),
		"updated_at": time.Now(),
	}).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build status update", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update contact status", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("contact %s not found", id))
	}
	return nil
}

// SaveProfile stores the merged profile and marks the contact completed
func (a *ContactAdapter) SaveProfile(ctx context.Context, id string, profile *entities.EnrichmentResult) error {
	profileRaw, err := json.Marshal(profile)
	if err != nil {
		return apperrors.NewInternalError("failed to encode contact profile", err)
	}

	query, args, err := a.db.Update("contacts").Set(goqu.Record{
		"profile":    profileRaw,
		"status":     string(entities.EnrichmentStatusCompleted),
		"updated_at": time.Now(),
	}).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build profile update", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to save contact profile", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("contact %s not found", id))
	}
	return nil
}

// ListByAccount lists contacts belonging to an account
func (a *ContactAdapter) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*entities.Contact, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := a.db.Select(
		"id", "account_id", "first_name", "last_name", "company_name",
		"email", "phone", "website", "status", "created_at", "updated_at",
	).From("contacts").
		Where(goqu.Ex{"account_id": accountID}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build contact list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list contacts", err)
	}
	defer rows.Close()

	var contacts []*entities.Contact
	for rows.Next() {
		contact := &entities.Contact{}
		var status string
		if err := rows.Scan(
			&contact.ID,
			&contact.AccountID,
			&contact.Identity.FirstName,
			&contact.Identity.LastName,
			&contact.Identity.CompanyName,
			&contact.Identity.Email,
			&contact.Identity.Phone,
			&contact.Identity.Website,
			&status,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan contact row", err)
		}
		contact.Status = entities.EnrichmentStatus(status)
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate contact rows", err)
	}
	return contacts, nil
}
