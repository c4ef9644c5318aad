package observability_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/prospectiq/leadscout/internal/infrastructure/observability"
)

func TestInitLogger_HonorsLogLevelEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	observability.InitLogger("leadscout", "production")

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestInitLogger_DefaultsToInfoOnUnknownLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "shouting")

	observability.InitLogger("leadscout", "production")

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
