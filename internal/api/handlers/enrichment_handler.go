package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/prospectiq/leadscout/internal/application/services"
	"github.com/prospectiq/leadscout/internal/domain/providers"
)

// EnrichmentHandler handles enrichment runs
type EnrichmentHandler struct {
	service *services.EnrichmentService
}

// NewEnrichmentHandler creates a new enrichment handler
func NewEnrichmentHandler(service *services.EnrichmentService) *EnrichmentHandler {
	return &EnrichmentHandler{service: service}
}

type enrichRequest struct {
	Summary providers.SummaryOptions `json:"summary"`
}

// StartEnrichment handles POST /api/contacts/{id}/enrich
// The response carries the full outcome; clients wanting progress
// subscribe to the SSE stream before calling this.
func (h *EnrichmentHandler) StartEnrichment(w http.ResponseWriter, r *http.Request) {
	contactID := r.PathValue("id")
	if contactID == "" {
		respondWithError(w, http.StatusBadRequest, "contact ID is required")
		return
	}

	// The body is optional: absent or empty means default summary options.
	var payload enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && err != io.EOF {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	outcome, err := h.service.Enrich(r.Context(), contactID, payload.Summary)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, outcome)
}
