package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/prospectiq/leadscout/internal/domain/entities"
	"github.com/prospectiq/leadscout/internal/domain/repositories"
	apperrors "github.com/prospectiq/leadscout/pkg/errors"
)

// Budget labels recorded with each usage row
const (
	BudgetSubscription = "subscription"
	BudgetCredit       = "credit"
)

// QuotaService owns the enrichment budget policy: subscription quota is
// preferred, purchased credits are spent only once the subscription
// period is exhausted.
type QuotaService struct {
	accounts repositories.AccountRepository
}

// NewQuotaService creates a new quota service
func NewQuotaService(accounts repositories.AccountRepository) *QuotaService {
	return &QuotaService{accounts: accounts}
}

// CanEnrich answers whether the account may start an enrichment now,
// echoing both budget states so callers can display them.
func (s *QuotaService) CanEnrich(ctx context.Context, accountID string) (*entities.QuotaDecision, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	decision := &entities.QuotaDecision{
		Allowed: account.HasBudget(),
		Subscription: entities.SubscriptionState{
			ScansUsed:  account.ScansUsed,
			ScansLimit: account.ScansLimit,
		},
		Credits: entities.CreditState{
			Balance: account.CreditBalance,
		},
	}
	if !decision.Allowed {
		decision.Reason = "subscription quota exhausted and no credits remaining"
	}
	return decision, nil
}

// Decrement charges one successful enrichment to the account,
// subscription quota first, credits as fallback. Both paths are atomic
// conditional updates, so a concurrent run cannot double-spend the
// last unit. A run that cannot be charged is logged, never rolled back.
func (s *QuotaService) Decrement(ctx context.Context, accountID, contactID string, usedPremiumSource bool) error {
	consumed, err := s.accounts.ConsumeScan(ctx, accountID)
	if err != nil {
		return apperrors.NewInternalError("failed to charge subscription quota", err)
	}
	if consumed {
		s.recordUsage(ctx, accountID, contactID, BudgetSubscription, usedPremiumSource)
		return nil
	}

	consumed, err = s.accounts.ConsumeCredit(ctx, accountID)
	if err != nil {
		return apperrors.NewInternalError("failed to charge credit balance", err)
	}
	if consumed {
		s.recordUsage(ctx, accountID, contactID, BudgetCredit, usedPremiumSource)
		return nil
	}

	return apperrors.NewQuotaExhaustedError(
		fmt.Sprintf("account %s had no budget left to charge for contact %s", accountID, contactID))
}

func (s *QuotaService) recordUsage(ctx context.Context, accountID, contactID, budget string, usedPremiumSource bool) {
	if err := s.accounts.RecordUsage(ctx, accountID, contactID, budget, usedPremiumSource); err != nil {
		log.Warn().Err(err).
			Str("account_id", accountID).
			Str("contact_id", contactID).
			Str("budget", budget).
			Msg("failed to record enrichment usage")
	}
}
