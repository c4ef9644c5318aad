package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prospectiq/leadscout/internal/domain/entities"
	"github.com/prospectiq/leadscout/internal/domain/providers"
)

// SSEHandler handles Server-Sent Events for live enrichment progress
type SSEHandler struct {
	eventBus providers.EventBus
	clients  map[string]map[chan *entities.EnrichmentEvent]bool // channel -> clients
	mu       sync.RWMutex
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus: eventBus,
		clients:  make(map[string]map[chan *entities.EnrichmentEvent]bool),
	}
}

// StreamEnrichmentProgress handles SSE connections for per-contact
// enrichment progress
// GET /api/stream/contacts/{id}
func (h *SSEHandler) StreamEnrichmentProgress(w http.ResponseWriter, r *http.Request) {
	contactID := r.PathValue("id")
	if contactID == "" {
		respondWithError(w, http.StatusBadRequest, "contact ID is required")
		return
	}

	if h.eventBus == nil {
		respondWithError(w, http.StatusServiceUnavailable, "progress streaming is not available")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Create client channel
	clientChan := make(chan *entities.EnrichmentEvent, 10)
	channel := providers.GetEnrichmentChannel(contactID)

	// Register client
	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	// Subscribe to events
	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("failed to subscribe to enrichment channel")
		return
	}

	// Send initial connection event
	h.sendEvent(w, "connected", map[string]interface{}{
		"contact_id": contactID,
		"timestamp":  time.Now(),
	})
	flusher.Flush()

	// Start forwarding events
	go h.forwardEvents(r.Context(), eventChan, clientChan)

	// Keep connection alive and send events
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("contact_id", contactID).Msg("client disconnected from enrichment stream")
			return
		case <-ticker.C:
			// Send heartbeat
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.Type), event)
			flusher.Flush()

			// Terminal events end the stream; the run is over.
			if event.Type == entities.EnrichmentEventTypeComplete || event.Type == entities.EnrichmentEventTypeError {
				return
			}
		}
	}
}

// forwardEvents forwards events from the event bus to a client channel
func (h *SSEHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.EnrichmentEvent, clientChan chan<- *entities.EnrichmentEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
				// Client channel full, skip event
			}
		}
	}
}

// registerClient registers a client for a channel
func (h *SSEHandler) registerClient(channel string, clientChan chan *entities.EnrichmentEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.EnrichmentEvent]bool)
	}
	h.clients[channel][clientChan] = true
	log.Debug().Str("channel", channel).Int("total", len(h.clients[channel])).Msg("sse client registered")
}

// unregisterClient unregisters a client from a channel
func (h *SSEHandler) unregisterClient(channel string, clientChan chan *entities.EnrichmentEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[channel]; exists {
		delete(clients, clientChan)

		// Clean up empty channel
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

// sendEvent sends an SSE event to the client
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal sse event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// GetClientCount returns the number of connected clients for debugging
func (h *SSEHandler) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}
