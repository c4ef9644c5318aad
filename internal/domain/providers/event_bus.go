package providers

import (
	"context"

	"github.com/prospectiq/leadscout/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// enrichment progress events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.EnrichmentEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.EnrichmentEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelEnrichmentPrefix is the prefix for per-contact progress channels
const EventChannelEnrichmentPrefix = "enrichment:"

// GetEnrichmentChannel returns the progress channel name for a contact
func GetEnrichmentChannel(contactID string) string {
	return EventChannelEnrichmentPrefix + contactID
}
