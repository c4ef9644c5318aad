package repositories

import (
	"context"

	"github.com/prospectiq/leadscout/internal/domain/entities"
)

// AccountRepository defines the interface for account and quota access.
// ConsumeScan and ConsumeCredit must be atomic conditional decrements:
// they report false without mutating anything when the corresponding
// budget is already exhausted, so racing enrichments for one account
// cannot both spend the last unit.
type AccountRepository interface {
	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id string) (*entities.Account, error)

	// ConsumeScan increments scans_used iff scans_used < scans_limit
	ConsumeScan(ctx context.Context, id string) (bool, error)

	// ConsumeCredit decrements credit_balance iff credit_balance > 0
	ConsumeCredit(ctx context.Context, id string) (bool, error)

	// RecordUsage appends an audit row for a successful enrichment
	RecordUsage(ctx context.Context, accountID, contactID, budget string, usedPremiumSource bool) error
}
