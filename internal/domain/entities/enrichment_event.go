package entities

import (
	"time"

	"github.com/google/uuid"
)

// EnrichmentEventType represents the type of a progress event
type EnrichmentEventType string

const (
	EnrichmentEventTypeProgress EnrichmentEventType = "progress"
	EnrichmentEventTypeComplete EnrichmentEventType = "complete"
	EnrichmentEventTypeError    EnrichmentEventType = "error"
)

// Enrichment step names carried by progress events. Fan-out steps are
// emitted in completion order, not in a fixed order.
const (
	EnrichmentStepStart      = "start"
	EnrichmentStepReputation = "reputation"
	EnrichmentStepResearch   = "company_research"
	EnrichmentStepSocial     = "social_profiles"
	EnrichmentStepRanking    = "decision_maker_ranking"
	EnrichmentStepSummary    = "summary"
)

// EnrichmentEvent is one frame on the progress stream for a contact
type EnrichmentEvent struct {
	ID        string                 `json:"id"`
	ContactID string                 `json:"contact_id"`
	Type      EnrichmentEventType    `json:"type"`
	Step      string                 `json:"step,omitempty"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewEnrichmentEvent creates a new progress event
func NewEnrichmentEvent(contactID string, eventType EnrichmentEventType, step, message string, data map[string]interface{}) *EnrichmentEvent {
	return &EnrichmentEvent{
		ID:        uuid.NewString(),
		ContactID: contactID,
		Type:      eventType,
		Step:      step,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}
