package providers

import (
	"context"

	"github.com/prospectiq/leadscout/internal/domain/entities"
)

// SummaryOptions carries optional caller-supplied personalization for
// the generated summary and icebreakers
type SummaryOptions struct {
	Tone       string `json:"tone,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
	SenderRole string `json:"sender_role,omitempty"`
}

// SummaryProvider generates an AI summary and icebreakers from the
// merged profile. It runs strictly after the fan-out sources complete.
type SummaryProvider interface {
	Summarize(ctx context.Context, identity entities.Identity, profile *entities.EnrichmentResult, opts SummaryOptions) (*entities.SummaryData, error)
}
