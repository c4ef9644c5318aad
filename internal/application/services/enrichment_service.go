package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/prospectiq/leadscout/internal/domain/entities"
	"github.com/prospectiq/leadscout/internal/domain/providers"
	"github.com/prospectiq/leadscout/internal/domain/repositories"
	"github.com/prospectiq/leadscout/internal/infrastructure/observability"
	apperrors "github.com/prospectiq/leadscout/pkg/errors"
)

const (
	defaultSourceTimeout = 10 * time.Second

	// staleProcessingAfter bounds how long a persisted processing
	// status blocks new runs. A row can be left in processing by a
	// crashed process or a failed profile write; after this window it
	// is treated as abandoned and the contact becomes enrichable again.
	staleProcessingAfter = 15 * time.Minute
)

// ProfileIndexer pushes completed profiles into the search index.
// Indexing is best-effort and never affects the run outcome.
type ProfileIndexer interface {
	IndexProfile(ctx context.Context, contact *entities.Contact) error
}

// EnrichmentOutcome is the synchronous answer to an enrich request
type EnrichmentOutcome struct {
	ContactID         string                     `json:"contact_id"`
	Status            entities.EnrichmentStatus  `json:"status"`
	Sections          map[string]bool            `json:"sections"`
	UsedPremiumSource bool                       `json:"used_premium_source"`
	Profile           *entities.EnrichmentResult `json:"profile,omitempty"`
}

// EnrichmentService coordinates one enrichment run: quota gate, cache-
// aware fan-out to the independent sources, incremental merge, the
// dependent ranking and summary steps, progress events, and final
// persistence. One source failing is downgraded to an empty payload
// and never fails the run.
type EnrichmentService struct {
	contacts   repositories.ContactRepository
	quota      *QuotaService
	reputation providers.ReputationProvider
	research   providers.ResearchProvider
	social     providers.SocialProvider
	summarizer providers.SummaryProvider
	ranker     *DecisionMakerService
	eventBus   providers.EventBus
	indexer    ProfileIndexer
	metrics    *observability.Metrics

	sourceTimeout time.Duration

	// inFlight guards against two concurrent runs for one contact,
	// which would double external spend.
	inFlight map[string]struct{}
	mu       sync.Mutex
}

// NewEnrichmentService creates a new enrichment orchestration service
func NewEnrichmentService(
	contacts repositories.ContactRepository,
	quota *QuotaService,
	reputation providers.ReputationProvider,
	research providers.ResearchProvider,
	social providers.SocialProvider,
	summarizer providers.SummaryProvider,
	ranker *DecisionMakerService,
	eventBus providers.EventBus,
) *EnrichmentService {
	return &EnrichmentService{
		contacts:      contacts,
		quota:         quota,
		reputation:    reputation,
		research:      research,
		social:        social,
		summarizer:    summarizer,
		ranker:        ranker,
		eventBus:      eventBus,
		sourceTimeout: defaultSourceTimeout,
		inFlight:      make(map[string]struct{}),
	}
}

// SetIndexer configures best-effort search indexing of completed profiles
func (s *EnrichmentService) SetIndexer(indexer ProfileIndexer) {
	s.indexer = indexer
}

// SetMetrics configures run metrics
func (s *EnrichmentService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// SetSourceTimeout overrides the per-source timeout
func (s *EnrichmentService) SetSourceTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.sourceTimeout = timeout
	}
}

// Enrich runs one enrichment for the contact. Precondition failures
// (no identity data, no quota) surface as errors before any external
// call is made and nothing is charged. Once the fan-out ran, the run
// completes with a possibly partial profile and the account is charged
// exactly one unit.
func (s *EnrichmentService) Enrich(ctx context.Context, contactID string, opts providers.SummaryOptions) (*EnrichmentOutcome, error) {
	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}

	if !s.acquire(contactID) {
		return nil, apperrors.NewConflictError("enrichment already in progress for this contact")
	}
	defer s.release(contactID)

	if contact.Status == entities.EnrichmentStatusProcessing {
		if time.Since(contact.UpdatedAt) < staleProcessingAfter {
			return nil, apperrors.NewConflictError("enrichment already in progress for this contact")
		}
		log.Warn().Str("contact_id", contact.ID).Time("updated_at", contact.UpdatedAt).
			Msg("reclaiming contact stuck in processing status")
	}

	if !contact.Identity.HasLookupData() {
		return s.failBefore(ctx, contact, "insufficient identity data")
	}

	decision, err := s.quota.CanEnrich(ctx, contact.AccountID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return s.failBefore(ctx, contact, decision.Reason)
	}

	if err := s.contacts.UpdateStatus(ctx, contact.ID, entities.EnrichmentStatusProcessing); err != nil {
		return nil, err
	}

	start := time.Now()
	s.publish(ctx, contact.ID, entities.NewEnrichmentEvent(
		contact.ID, entities.EnrichmentEventTypeProgress, entities.EnrichmentStepStart,
		"enrichment started", nil))

	// The fan-out runs on a context detached from the request: the
	// external calls' cost is sunk once issued, and letting them finish
	// keeps the cache-population benefit even if the observer leaves.
	workCtx := context.WithoutCancel(ctx)

	result := &entities.EnrichmentResult{}
	var resultMu sync.Mutex

	g, _ := errgroup.WithContext(workCtx)

	g.Go(func() error {
		data, err := s.fetchReputation(workCtx, contact.Identity)
		if err == nil && data != nil {
			resultMu.Lock()
			result.Reputation = data
			resultMu.Unlock()
		}
		s.publishPhase(workCtx, contact.ID, entities.EnrichmentStepReputation,
			"reputation lookup finished", err == nil && data != nil)
		return nil
	})

	g.Go(func() error {
		data, err := s.fetchResearch(workCtx, contact.Identity)
		if err == nil && data != nil {
			resultMu.Lock()
			result.Company = data
			resultMu.Unlock()
		}
		s.publishPhase(workCtx, contact.ID, entities.EnrichmentStepResearch,
			"company research finished", err == nil && data != nil)

		// Ranking depends only on research, so it runs as soon as the
		// executive list is available rather than waiting on the join.
		if data != nil && len(data.Executives) > 0 {
			ranked := s.ranker.Rank(data.Executives)
			resultMu.Lock()
			result.DecisionMakers = ranked
			resultMu.Unlock()
			s.publishPhase(workCtx, contact.ID, entities.EnrichmentStepRanking,
				"decision makers ranked", true)
		}
		return nil
	})

	g.Go(func() error {
		profiles, err := s.fetchSocial(workCtx, contact.Identity)
		if err == nil && len(profiles) > 0 {
			resultMu.Lock()
			result.SocialProfiles = profiles
			resultMu.Unlock()
		}
		s.publishPhase(workCtx, contact.ID, entities.EnrichmentStepSocial,
			"social profile search finished", err == nil && len(profiles) > 0)
		return nil
	})

	// Source goroutines never return errors; failures were downgraded
	// to empty payloads already.
	_ = g.Wait()

	s.generateSummary(workCtx, contact, result, opts)

	if err := s.contacts.SaveProfile(workCtx, contact.ID, result); err != nil {
		// The run already succeeded from the caller's point of view;
		// losing the write is logged, not surfaced.
		log.Error().Err(err).Str("contact_id", contact.ID).Msg("failed to persist enriched profile")
	}

	sections := result.SectionFlags()
	s.publish(workCtx, contact.ID, entities.NewEnrichmentEvent(
		contact.ID, entities.EnrichmentEventTypeComplete, "",
		"enrichment completed", map[string]interface{}{"sections": sections}))

	s.indexProfile(workCtx, contact, result)
	s.recordRun(workCtx, "completed", time.Since(start))

	usedPremium := result.Company != nil
	if err := s.quota.Decrement(workCtx, contact.AccountID, contact.ID, usedPremium); err != nil {
		// The sources already ran, so the run stays completed even if
		// the charge could not land.
		log.Warn().Err(err).Str("account_id", contact.AccountID).Str("contact_id", contact.ID).
			Msg("failed to charge account for completed enrichment")
	}

	return &EnrichmentOutcome{
		ContactID:         contact.ID,
		Status:            entities.EnrichmentStatusCompleted,
		Sections:          sections,
		UsedPremiumSource: usedPremium,
		Profile:           result,
	}, nil
}

// failBefore marks a precondition failure: no external call was made,
// no budget is charged.
func (s *EnrichmentService) failBefore(ctx context.Context, contact *entities.Contact, reason string) (*EnrichmentOutcome, error) {
	if err := s.contacts.UpdateStatus(ctx, contact.ID, entities.EnrichmentStatusFailed); err != nil {
		log.Warn().Err(err).Str("contact_id", contact.ID).Msg("failed to mark contact failed")
	}
	s.publish(ctx, contact.ID, entities.NewEnrichmentEvent(
		contact.ID, entities.EnrichmentEventTypeError, "", reason, nil))
	s.recordRun(ctx, "failed", 0)

	if reason == "insufficient identity data" {
		return nil, apperrors.NewValidationError(reason)
	}
	return nil, apperrors.NewQuotaExhaustedError(reason)
}

func (s *EnrichmentService) fetchReputation(ctx context.Context, identity entities.Identity) (*entities.ReputationData, error) {
	if s.reputation == nil {
		return nil, nil
	}
	sctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	start := time.Now()
	data, err := s.reputation.Lookup(sctx, identity)
	s.recordSource(ctx, providers.SourceReputation, time.Since(start), err)
	if err != nil {
		log.Warn().Err(err).Msg("reputation lookup failed, continuing without it")
		return nil, err
	}
	return data, nil
}

func (s *EnrichmentService) fetchResearch(ctx context.Context, identity entities.Identity) (*entities.CompanyData, error) {
	if s.research == nil {
		return nil, nil
	}
	sctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	start := time.Now()
	data, err := s.research.Research(sctx, identity)
	s.recordSource(ctx, providers.SourceResearch, time.Since(start), err)
	if err != nil {
		log.Warn().Err(err).Msg("company research failed, continuing without it")
		return nil, err
	}
	return data, nil
}

func (s *EnrichmentService) fetchSocial(ctx context.Context, identity entities.Identity) (map[string]string, error) {
	if s.social == nil {
		return nil, nil
	}
	sctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	start := time.Now()
	profiles, err := s.social.FindProfiles(sctx, identity)
	s.recordSource(ctx, providers.SourceSocial, time.Since(start), err)
	if err != nil {
		log.Warn().Err(err).Msg("social profile search failed, continuing without it")
		return nil, err
	}
	return profiles, nil
}

// generateSummary runs the dependent summary step over the merged
// result. A summary failure leaves the section null; it never fails
// the run.
func (s *EnrichmentService) generateSummary(ctx context.Context, contact *entities.Contact, result *entities.EnrichmentResult, opts providers.SummaryOptions) {
	if s.summarizer == nil {
		return
	}

	sctx, cancel := context.WithTimeout(ctx, 2*s.sourceTimeout)
	defer cancel()

	summary, err := s.summarizer.Summarize(sctx, contact.Identity, result, opts)
	if err != nil {
		log.Warn().Err(err).Str("contact_id", contact.ID).Msg("summary generation failed, continuing without it")
	} else if summary != nil {
		result.Summary = summary
	}
	s.publishPhase(ctx, contact.ID, entities.EnrichmentStepSummary,
		"summary generation finished", result.Summary != nil)
}

func (s *EnrichmentService) indexProfile(ctx context.Context, contact *entities.Contact, result *entities.EnrichmentResult) {
	if s.indexer == nil {
		return
	}
	indexed := *contact
	indexed.Profile = result
	if err := s.indexer.IndexProfile(ctx, &indexed); err != nil {
		log.Warn().Err(err).Str("contact_id", contact.ID).Msg("failed to index enriched profile")
	}
}

func (s *EnrichmentService) acquire(contactID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.inFlight[contactID]; exists {
		return false
	}
	s.inFlight[contactID] = struct{}{}
	return true
}

func (s *EnrichmentService) release(contactID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, contactID)
}

func (s *EnrichmentService) publish(ctx context.Context, contactID string, event *entities.EnrichmentEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, providers.GetEnrichmentChannel(contactID), event); err != nil {
		log.Warn().Err(err).Str("contact_id", contactID).Str("step", event.Step).
			Msg("failed to publish enrichment event")
	}
}

func (s *EnrichmentService) publishPhase(ctx context.Context, contactID, step, message string, populated bool) {
	s.publish(ctx, contactID, entities.NewEnrichmentEvent(
		contactID, entities.EnrichmentEventTypeProgress, step, message,
		map[string]interface{}{"populated": populated}))
}

func (s *EnrichmentService) recordSource(ctx context.Context, source string, duration time.Duration, err error) {
	if s.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	s.metrics.SourceDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		s.metrics.SourceErrorCount.Add(ctx, 1, attrs)
	}
}

func (s *EnrichmentService) recordRun(ctx context.Context, outcome string, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	s.metrics.EnrichmentCount.Add(ctx, 1, attrs)
	if duration > 0 {
		s.metrics.EnrichmentDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}
