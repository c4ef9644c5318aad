package routes

import (
	"net/http"

	"github.com/prospectiq/leadscout/internal/api/handlers"
	"github.com/prospectiq/leadscout/internal/api/middleware"
	"github.com/prospectiq/leadscout/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	contactHandler    *handlers.ContactHandler
	enrichmentHandler *handlers.EnrichmentHandler
	accountHandler    *handlers.AccountHandler
	sseHandler        *handlers.SSEHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	contactHandler *handlers.ContactHandler,
	enrichmentHandler *handlers.EnrichmentHandler,
	accountHandler *handlers.AccountHandler,
	sseHandler *handlers.SSEHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		contactHandler:    contactHandler,
		enrichmentHandler: enrichmentHandler,
		accountHandler:    accountHandler,
		sseHandler:        sseHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Contact endpoints
	r.mux.HandleFunc("POST /api/contacts", r.contactHandler.CreateContact)
	r.mux.HandleFunc("GET /api/contacts/{id}", r.contactHandler.GetContact)

	// Enrichment endpoints
	r.mux.HandleFunc("POST /api/contacts/{id}/enrich", r.enrichmentHandler.StartEnrichment)

	// Account endpoints
	r.mux.HandleFunc("GET /api/accounts/{id}", r.accountHandler.GetAccount)
	r.mux.HandleFunc("GET /api/accounts/{id}/quota", r.accountHandler.GetQuota)
	r.mux.HandleFunc("GET /api/accounts/{id}/contacts", r.contactHandler.ListContacts)
	r.mux.HandleFunc("GET /api/accounts/{id}/contacts/search", r.contactHandler.SearchContacts)

	// SSE endpoint for live enrichment progress
	r.mux.HandleFunc("GET /api/stream/contacts/{id}", r.sseHandler.StreamEnrichmentProgress)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
