//go:build integration

package integration

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectiq/leadscout/internal/adapters/database"
	"github.com/prospectiq/leadscout/internal/infrastructure/clients/postgres"
)

func setupAccountsSchema(t *testing.T, client *postgres.Client) {
	t.Helper()
	_, err := client.DB().Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			scans_used INT NOT NULL DEFAULT 0,
			scans_limit INT NOT NULL DEFAULT 0,
			credit_balance INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS enrichment_usage (
			id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL,
			contact_id TEXT NOT NULL,
			budget TEXT NOT NULL,
			used_premium_source BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	require.NoError(t, err)
}

func insertAccount(t *testing.T, client *postgres.Client, id string, scansUsed, scansLimit, credits int) {
	t.Helper()
	_, err := client.DB().Exec(`
		INSERT INTO accounts (id, name, scans_used, scans_limit, credit_balance, created_at, updated_at)
		VALUES ($1, 'test', $2, $3, $4, now(), now())
	`, id, scansUsed, scansLimit, credits)
	require.NoError(t, err)
}

func TestAccountAdapter_ConsumeScanIsAtomicIntegration(t *testing.T) {
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("Skipping integration test: TEST_DB_HOST not set")
	}

	client := newTestPostgresClient(t)
	defer client.Close()
	setupAccountsSchema(t, client)

	accountID := uuid.NewString()
	// One unit of subscription budget left, many concurrent claimants.
	insertAccount(t, client, accountID, 9, 10, 0)

	adapter := database.NewAccountAdapter(client)

	const claimants = 16
	var wg sync.WaitGroup
	results := make([]bool, claimants)

	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			ok, err := adapter.ConsumeScan(ctx, accountID)
			require.NoError(t, err)
			results[idx] = ok
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	// Exactly one claimant may spend the last unit.
	assert.Equal(t, 1, winners)

	account, err := adapter.GetByID(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, 10, account.ScansUsed)
}

func TestAccountAdapter_ConsumeCreditStopsAtZeroIntegration(t *testing.T) {
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("Skipping integration test: TEST_DB_HOST not set")
	}

	client := newTestPostgresClient(t)
	defer client.Close()
	setupAccountsSchema(t, client)

	accountID := uuid.NewString()
	insertAccount(t, client, accountID, 10, 10, 2)

	adapter := database.NewAccountAdapter(client)
	ctx := context.Background()

	ok, err := adapter.ConsumeCredit(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.ConsumeCredit(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Balance is now zero; further consumption must fail, never go negative.
	ok, err = adapter.ConsumeCredit(ctx, accountID)
	require.NoError(t, err)
	assert.False(t, ok)

	account, err := adapter.GetByID(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 0, account.CreditBalance)
}
