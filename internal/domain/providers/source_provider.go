package providers

import (
	"context"

	"github.com/prospectiq/leadscout/internal/domain/entities"
)

// Source names used for cache namespacing and diagnostics. Each source
// owns a disjoint key namespace, so concurrent adapters never write the
// same cache entry.
const (
	SourceReputation = "reputation"
	SourceResearch   = "research"
	SourceSocial     = "social"
)

// Every source provider follows the same contract: a missing required
// identity field or a provider failure yields (nil, nil) semantics at
// the orchestration layer; providers return their transport error so
// the caller can log it, but the orchestrator downgrades it to an empty
// payload and never fails the run because of one source.

// ReputationProvider looks up the public business listing for a company
type ReputationProvider interface {
	Lookup(ctx context.Context, identity entities.Identity) (*entities.ReputationData, error)
}

// ResearchProvider performs deep company research
type ResearchProvider interface {
	Research(ctx context.Context, identity entities.Identity) (*entities.CompanyData, error)
}

// SocialProvider searches social platforms for the person's profiles,
// returning a map of platform name to profile URL
type SocialProvider interface {
	FindProfiles(ctx context.Context, identity entities.Identity) (map[string]string, error)
}
