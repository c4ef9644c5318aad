package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prospectiq/leadscout/internal/adapters/cache"
	"github.com/prospectiq/leadscout/internal/adapters/database"
	"github.com/prospectiq/leadscout/internal/adapters/events"
	"github.com/prospectiq/leadscout/internal/adapters/search"
	"github.com/prospectiq/leadscout/internal/adapters/sources"
	"github.com/prospectiq/leadscout/internal/adapters/sources/reputation"
	"github.com/prospectiq/leadscout/internal/adapters/sources/research"
	"github.com/prospectiq/leadscout/internal/adapters/sources/social"
	"github.com/prospectiq/leadscout/internal/api/handlers"
	"github.com/prospectiq/leadscout/internal/api/middleware"
	"github.com/prospectiq/leadscout/internal/api/routes"
	"github.com/prospectiq/leadscout/internal/application/services"
	"github.com/prospectiq/leadscout/internal/domain/providers"
	"github.com/prospectiq/leadscout/internal/infrastructure/clients/openai"
	"github.com/prospectiq/leadscout/internal/infrastructure/clients/postgres"
	"github.com/prospectiq/leadscout/internal/infrastructure/clients/redis"
	"github.com/prospectiq/leadscout/internal/infrastructure/clients/typesense"
	"github.com/prospectiq/leadscout/internal/infrastructure/observability"
	"github.com/prospectiq/leadscout/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client; the service degrades to uncached,
	// event-less operation without it
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	// Initialize Typesense client for enriched-profile search
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Typesense client, profile search disabled")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for live enrichment progress
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized")
	} else {
		log.Warn().Msg("event bus disabled, Redis not available")
	}

	// Initialize repositories
	contactAdapter := database.NewContactAdapter(pgClient)
	accountAdapter := database.NewAccountAdapter(pgClient)

	var searchAdapter *search.TypesenseAdapter
	if typesenseClient != nil {
		searchAdapter = search.NewTypesenseAdapter(typesenseClient)
		if err := searchAdapter.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
	}

	// Initialize source providers behind a shared lookup cache
	lookupCache := sources.NewLookupCache(cacheProvider, cfg.Enrichment.CacheTTLDays)
	lookupCache.SetMetrics(metrics)

	var reputationProvider providers.ReputationProvider
	if cfg.Reputation.APIKey != "" {
		reputationProvider = reputation.NewProvider(cfg.Reputation.APIKey, cfg.Reputation.TimeoutSeconds, lookupCache)
	} else {
		log.Warn().Msg("REPUTATION_API_KEY is not set, reputation lookups disabled")
	}

	var researchProvider providers.ResearchProvider
	if cfg.Research.APIKey != "" {
		researchProvider = research.NewProvider(cfg.Research.APIKey, cfg.Research.BaseURL, cfg.Research.TimeoutSeconds, cfg.Research.RateLimitRPM, lookupCache)
	} else {
		log.Warn().Msg("RESEARCH_API_KEY is not set, company research disabled")
	}

	var socialProvider providers.SocialProvider
	if cfg.Social.APIKey != "" {
		socialProvider = social.NewProvider(cfg.Social.APIKey, cfg.Social.TimeoutSeconds, lookupCache)
	} else {
		log.Warn().Msg("SOCIAL_API_KEY is not set, social profile search disabled")
	}

	var summaryProvider providers.SummaryProvider
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set, summary generation disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize OpenAI client")
		} else {
			summaryProvider = openaiClient
		}
	}

	// Initialize services
	quotaService := services.NewQuotaService(accountAdapter)
	rankerService := services.NewDecisionMakerService()

	enrichmentService := services.NewEnrichmentService(
		contactAdapter,
		quotaService,
		reputationProvider,
		researchProvider,
		socialProvider,
		summaryProvider,
		rankerService,
		eventBus,
	)
	enrichmentService.SetMetrics(metrics)
	enrichmentService.SetSourceTimeout(time.Duration(cfg.Enrichment.SourceTimeoutSeconds) * time.Second)
	if searchAdapter != nil {
		enrichmentService.SetIndexer(searchAdapter)
	}

	// Initialize handlers
	var searcher handlers.ProfileSearcher
	if searchAdapter != nil {
		searcher = searchAdapter
	}
	contactHandler := handlers.NewContactHandler(contactAdapter, searcher)
	enrichmentHandler := handlers.NewEnrichmentHandler(enrichmentService)
	accountHandler := handlers.NewAccountHandler(accountAdapter, quotaService)
	sseHandler := handlers.NewSSEHandler(eventBus)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	// Set up router
	router := routes.NewRouter(
		contactHandler,
		enrichmentHandler,
		accountHandler,
		sseHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server. WriteTimeout stays unset: enrichment requests
	// block for the duration of the fan-out and SSE streams are long-lived.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
