package handlers

import (
	"net/http"

	"github.com/prospectiq/leadscout/internal/application/services"
	"github.com/prospectiq/leadscout/internal/domain/repositories"
)

// AccountHandler handles account and quota queries
type AccountHandler struct {
	accounts repositories.AccountRepository
	quota    *services.QuotaService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts repositories.AccountRepository, quota *services.QuotaService) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		quota:    quota,
	}
}

// GetAccount handles GET /api/accounts/{id}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if accountID == "" {
		respondWithError(w, http.StatusBadRequest, "account ID is required")
		return
	}

	account, err := h.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, account)
}

// GetQuota handles GET /api/accounts/{id}/quota
func (h *AccountHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if accountID == "" {
		respondWithError(w, http.StatusBadRequest, "account ID is required")
		return
	}

	decision, err := h.quota.CanEnrich(r.Context(), accountID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, decision)
}
