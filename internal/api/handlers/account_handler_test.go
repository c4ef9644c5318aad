package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectiq/leadscout/internal/api/handlers"
	"github.com/prospectiq/leadscout/internal/application/services"
	"github.com/prospectiq/leadscout/internal/domain/entities"
	apperrors "github.com/prospectiq/leadscout/pkg/errors"
)

type stubAccountRepository struct {
	accounts map[string]*entities.Account
}

func (s *stubAccountRepository) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("account not found")
	}
	return account, nil
}

func (s *stubAccountRepository) ConsumeScan(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (s *stubAccountRepository) ConsumeCredit(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (s *stubAccountRepository) RecordUsage(ctx context.Context, accountID, contactID, budget string, usedPremiumSource bool) error {
	return nil
}

func TestAccountHandler_GetQuota(t *testing.T) {
	repo := &stubAccountRepository{accounts: map[string]*entities.Account{
		"account-1": {ID: "account-1", ScansUsed: 8, ScansLimit: 10, CreditBalance: 3},
	}}
	handler := handlers.NewAccountHandler(repo, services.NewQuotaService(repo))

	t.Run("returns the quota decision", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/accounts/account-1/quota", nil)
		req.SetPathValue("id", "account-1")
		w := httptest.NewRecorder()

		handler.GetQuota(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var decision entities.QuotaDecision
		require.NoError(t, json.NewDecoder(w.Body).Decode(&decision))
		assert.True(t, decision.Allowed)
		assert.Equal(t, 8, decision.Subscription.ScansUsed)
		assert.Equal(t, 3, decision.Credits.Balance)
	})

	t.Run("maps unknown account to 404", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/accounts/missing/quota", nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()

		handler.GetQuota(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAccountHandler_GetAccount(t *testing.T) {
	repo := &stubAccountRepository{accounts: map[string]*entities.Account{
		"account-1": {ID: "account-1", Name: "Acme Sales Team"},
	}}
	handler := handlers.NewAccountHandler(repo, services.NewQuotaService(repo))

	req := httptest.NewRequest("GET", "/api/accounts/account-1", nil)
	req.SetPathValue("id", "account-1")
	w := httptest.NewRecorder()

	handler.GetAccount(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var account entities.Account
	require.NoError(t, json.NewDecoder(w.Body).Decode(&account))
	assert.Equal(t, "Acme Sales Team", account.Name)
}
