package entities

import (
	"strings"
	"time"
)

// EnrichmentStatus is the per-contact enrichment state machine
type EnrichmentStatus string

const (
	// EnrichmentStatusPending is the initial state of a registered contact
	EnrichmentStatusPending EnrichmentStatus = "pending"

	// EnrichmentStatusProcessing means an enrichment run has started
	EnrichmentStatusProcessing EnrichmentStatus = "processing"

	// EnrichmentStatusCompleted means all sources were attempted and the
	// merged profile was stored; partial or empty data is still completed
	EnrichmentStatusCompleted EnrichmentStatus = "completed"

	// EnrichmentStatusFailed means a precondition (identity data, quota)
	// was not met before any source ran
	EnrichmentStatusFailed EnrichmentStatus = "failed"
)

// IsTerminal reports whether the status admits no further transitions
func (s EnrichmentStatus) IsTerminal() bool {
	return s == EnrichmentStatusCompleted || s == EnrichmentStatusFailed
}

// Identity is the partial, caller-supplied set of known facts driving
// lookups. It is immutable for the duration of one enrichment run.
type Identity struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
}

// HasLookupData reports whether the identity carries at least one field
// an external source can be queried with
func (i Identity) HasLookupData() bool {
	return strings.TrimSpace(i.Email) != "" ||
		strings.TrimSpace(i.Phone) != "" ||
		strings.TrimSpace(i.CompanyName) != ""
}

// FullName returns the person name, or empty when unknown
func (i Identity) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(i.FirstName) + " " + strings.TrimSpace(i.LastName))
}

// Contact is a stored identity record plus its enrichment state
type Contact struct {
	ID        string            `json:"id"`
	AccountID string            `json:"account_id"`
	Identity  Identity          `json:"identity"`
	Status    EnrichmentStatus  `json:"status"`
	Profile   *EnrichmentResult `json:"profile,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
