package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig()
	assert.Nil(t, cfg)
	assert.EqualError(t, err, "JWT_SECRET must be set when IS_PRODUCTION is true")

	t.Setenv("JWT_SECRET", "prod-secret")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
}

func TestLoadConfig_DevelopmentFallsBackToDefaultSecret(t *testing.T) {
	t.Setenv("IS_PRODUCTION", "false")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MEMORY_SEED_CLIENTS", " client-1, ,client-2 ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.IsProduction)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, []string{"client-1", "client-2"}, cfg.MemorySeedClients)
}
