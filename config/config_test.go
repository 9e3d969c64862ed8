package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_TEMPERATURE", "not-a-number")
	t.Setenv("MEMORY_WINDOW", "4")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.InDelta(t, 0.1, cfg.GeminiTemperature, 1e-9)
	assert.Equal(t, 4, cfg.MemoryWindow)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, 12, cfg.BodyLimitMB)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CF_INT", "x")
	t.Setenv("CF_FLOAT", "0.7")
	t.Setenv("CF_BOOL", "true")

	assert.Equal(t, 9, getEnvInt("CF_INT", 9))
	assert.InDelta(t, 0.7, getEnvFloat("CF_FLOAT", 0), 1e-9)
	assert.True(t, getEnvBool("CF_BOOL", false))
	assert.Equal(t, "fallback", getEnv("CF_MISSING_KEY", "fallback"))
}
