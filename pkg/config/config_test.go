package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectiq/leadscout/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "leadscout", cfg.Database.Database)
	assert.Equal(t, 14, cfg.Enrichment.CacheTTLDays)
	assert.Equal(t, 10, cfg.Enrichment.SourceTimeoutSeconds)
	assert.Equal(t, 8, cfg.Reputation.TimeoutSeconds)
	assert.Equal(t, 9, cfg.Research.TimeoutSeconds)
	assert.Equal(t, 6, cfg.Social.TimeoutSeconds)
	assert.False(t, cfg.OTEL.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("ENRICHMENT_CACHE_TTL_DAYS", "30")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("RESEARCH_RATE_LIMIT_RPM", "120")
	t.Setenv("RESEARCH_TIMEOUT_SECONDS", "20")
	t.Setenv("ENRICHMENT_SOURCE_TIMEOUT_SECONDS", "25")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 30, cfg.Enrichment.CacheTTLDays)
	assert.True(t, cfg.OTEL.Enabled)
	assert.Equal(t, 120, cfg.Research.RateLimitRPM)
	assert.Equal(t, 20, cfg.Research.TimeoutSeconds)
	assert.Equal(t, 25, cfg.Enrichment.SourceTimeoutSeconds)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "secret", Database: "leadscout", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=leadscout sslmode=disable",
		cfg.DatabaseDSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := config.RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
