//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectiq/leadscout/internal/adapters/events"
	"github.com/prospectiq/leadscout/internal/domain/entities"
	"github.com/prospectiq/leadscout/internal/domain/providers"
)

func waitForEnrichmentEvent(t *testing.T, ch <-chan *entities.EnrichmentEvent) *entities.EnrichmentEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for enrichment event")
		return nil
	}
}

func TestRedisEventBusFanoutIntegration(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	channel := providers.GetEnrichmentChannel("contact-it-1")
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel1()
	defer cancel2()

	sub1, err := eventBus.Subscribe(ctx1, channel)
	require.NoError(t, err)
	sub2, err := eventBus.Subscribe(ctx2, channel)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := entities.NewEnrichmentEvent(
		"contact-it-1",
		entities.EnrichmentEventTypeProgress,
		entities.EnrichmentStepStart,
		"enrichment started",
		nil,
	)

	err = eventBus.Publish(context.Background(), channel, event)
	require.NoError(t, err)

	received1 := waitForEnrichmentEvent(t, sub1)
	received2 := waitForEnrichmentEvent(t, sub2)

	assert.Equal(t, event.ID, received1.ID)
	assert.Equal(t, event.ID, received2.ID)
	assert.Equal(t, entities.EnrichmentStepStart, received1.Step)
}

func TestRedisEventBusChannelsAreIsolatedIntegration(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subA, err := eventBus.Subscribe(ctx, providers.GetEnrichmentChannel("contact-a"))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	// An event for another contact must not reach this subscriber.
	other := entities.NewEnrichmentEvent(
		"contact-b",
		entities.EnrichmentEventTypeProgress,
		entities.EnrichmentStepReputation,
		"reputation lookup finished",
		nil,
	)
	require.NoError(t, eventBus.Publish(context.Background(), providers.GetEnrichmentChannel("contact-b"), other))

	select {
	case event := <-subA:
		t.Fatalf("received event for the wrong contact: %s", event.ContactID)
	case <-time.After(300 * time.Millisecond):
	}
}
