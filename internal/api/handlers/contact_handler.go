package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prospectiq/leadscout/internal/domain/entities"
	"github.com/prospectiq/leadscout/internal/domain/repositories"
)

// ProfileSearcher searches enriched profiles within an account.
type ProfileSearcher interface {
	Search(ctx context.Context, accountID, query string, limit int) ([]string, error)
}

// ContactHandler handles contact registration and retrieval
type ContactHandler struct {
	contacts repositories.ContactRepository
	searcher ProfileSearcher
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts repositories.ContactRepository, searcher ProfileSearcher) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		searcher: searcher,
	}
}

type createContactRequest struct {
	AccountID string            `json:"account_id"`
	Identity  entities.Identity `json:"identity"`
}

// CreateContact handles POST /api/contacts
func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var payload createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if strings.TrimSpace(payload.AccountID) == "" {
		respondWithError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	// A contact with no queryable field is accepted, but its enrichment
	// will be rejected; surface that early with a warning field.
	now := time.Now().UTC()
	contact := &entities.Contact{
		ID:        uuid.New().String(),
		AccountID: payload.AccountID,
		Identity:  payload.Identity,
		Status:    entities.EnrichmentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.contacts.Create(r.Context(), contact); err != nil {
		respondWithAppError(w, err)
		return
	}

	response := map[string]interface{}{
		"contact": contact,
	}
	if !contact.Identity.HasLookupData() {
		response["warning"] = "contact has no email, phone, or company name; enrichment will be rejected"
	}
	respondWithJSON(w, http.StatusCreated, response)
}

// GetContact handles GET /api/contacts/{id}
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	contactID := r.PathValue("id")
	if contactID == "" {
		respondWithError(w, http.StatusBadRequest, "contact ID is required")
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), contactID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, contact)
}

// ListContacts handles GET /api/accounts/{id}/contacts
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if accountID == "" {
		respondWithError(w, http.StatusBadRequest, "account ID is required")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	contacts, err := h.contacts.ListByAccount(r.Context(), accountID, limit, offset)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// SearchContacts handles GET /api/accounts/{id}/contacts/search?q=...
// Search runs over the enriched-profile index, so only completed
// contacts can match.
func (h *ContactHandler) SearchContacts(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if accountID == "" {
		respondWithError(w, http.StatusBadRequest, "account ID is required")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	if h.searcher == nil {
		respondWithError(w, http.StatusServiceUnavailable, "profile search is not configured")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	ids, err := h.searcher.Search(r.Context(), accountID, query, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	contacts := make([]*entities.Contact, 0, len(ids))
	for _, id := range ids {
		contact, err := h.contacts.GetByID(r.Context(), id)
		if err != nil {
			// Index can lag behind deletes; skip the stale hit.
			continue
		}
		contacts = append(contacts, contact)
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"contacts": contacts,
		"count":    len(contacts),
	})
}
