package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, "@every 5m", cfg.Session.Sweep)
	assert.Equal(t, 20, cfg.Session.MaxTurns)
	assert.Equal(t, 10, cfg.Session.MaxPlans)
	assert.Equal(t, 30*time.Second, cfg.AI.GenerationTimeout)
	assert.Equal(t, 100, cfg.Quota.PlansPerMonth)
	assert.Equal(t, 5*time.Minute, cfg.Weather.CacheTTL)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("TRAILMATE_HTTP_ADDR", ":9000")
	t.Setenv("TRAILMATE_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("TRAILMATE_SESSION_IDLE_TIMEOUT", "10m")
	t.Setenv("TRAILMATE_AI_PROVIDER", "ollama")
	t.Setenv("TRAILMATE_LOG_LEVEL", "debug")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, "ollama", cfg.AI.Provider)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TRAILMATE_AI_PROVIDER", "watson"},
		{"TRAILMATE_SESSION_MAX_TURNS", "0"},
		{"TRAILMATE_SESSION_IDLE_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}
