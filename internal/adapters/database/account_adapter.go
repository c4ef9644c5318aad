package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/prospectiq/leadscout/internal/domain/entities"
	"github.com/prospectiq/leadscout/internal/domain/repositories"
	"github.com/prospectiq/leadscout/internal/infrastructure/clients/postgres"
	apperrors "github.com/prospectiq/leadscout/pkg/errors"
)

// AccountAdapter implements the AccountRepository interface. The two
// Consume operations are single conditional UPDATE statements so that
// concurrent enrichments for one account cannot both spend the last
// unit of budget.
type AccountAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAccountAdapter creates a new account adapter
func NewAccountAdapter(client *postgres.Client) repositories.AccountRepository {
	return &AccountAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves an account by ID
func (a *AccountAdapter) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	query, args, err := a.db.Select(
		"id", "name", "scans_used", "scans_limit", "credit_balance",
		"created_at", "updated_at",
	).From("accounts").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build account query", err)
	}

	account := &entities.Account{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&account.ID,
		&account.Name,
		&account.ScansUsed,
		&account.ScansLimit,
		&account.CreditBalance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get account", err)
	}
	return account, nil
}

// ConsumeScan increments scans_used iff subscription quota remains. The
// WHERE clause is the atomicity guarantee: the row only matches while
// scans_used < scans_limit.
func (a *AccountAdapter) ConsumeScan(ctx context.Context, id string) (bool, error) {
	query, args, err := a.db.Update("accounts").Set(goqu.Record{
		"scans_used": goqu.L("scans_used + 1"),
		"updated_at": time.Now(),
	}).Where(
		goqu.Ex{"id": id},
		goqu.L("scans_used < scans_limit"),
	).ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build scan decrement", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewInternalError("failed to consume subscription scan", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read scan decrement result", err)
	}
	return rows > 0, nil
}

// ConsumeCredit decrements credit_balance iff any credits remain.
func (a *AccountAdapter) ConsumeCredit(ctx context.Context, id string) (bool, error) {
	query, args, err := a.db.Update("accounts").Set(goqu.Record{
		"credit_balance": goqu.L("credit_balance - 1"),
		"updated_at":     time.Now(),
	}).Where(
		goqu.Ex{"id": id},
		goqu.L("credit_balance > 0"),
	).ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build credit decrement", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewInternalError("failed to consume credit", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read credit decrement result", err)
	}
	return rows > 0, nil
}

// RecordUsage appends an audit row for a successful enrichment
func (a *AccountAdapter) RecordUsage(ctx context.Context, accountID, contactID, budget string, usedPremiumSource bool) error {
	query, args, err := a.db.Insert("enrichment_usage").Rows(goqu.Record{
		"id":                  uuid.NewString(),
		"account_id":          accountID,
		"contact_id":          contactID,
		"budget":              budget,
		"used_premium_source": usedPremiumSource,
		"created_at":          time.Now(),
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build usage insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to record enrichment usage", err)
	}
	return nil
}
