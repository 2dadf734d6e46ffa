package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailmate/internal/ai/aitest"
	"trailmate/internal/config"
	"trailmate/internal/modules/dialogue"
	"trailmate/internal/modules/session"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Parse()
	require.NoError(t, err)
	cfg.Redis.Addr = ""
	cfg.DB.DSN = ""
	cfg.Firebase.ProjectID = ""
	cfg.Weather.APIKey = ""
	cfg.Maps.APIKey = ""
	return cfg
}

func TestNewInMemoryWiring(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	gen := aitest.Text("Visit Porto.")

	a, err := New(context.Background(), testConfig(t), logger, Options{Generator: gen, MemoryOnly: true})
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &session.MemoryStore{}, a.Store)
	assert.Nil(t, a.Archive)
	assert.Nil(t, a.Quota)
	assert.Nil(t, a.Verifier)

	resp, err := a.Engine.HandleTurn(context.Background(), dialogue.TurnRequest{
		Message: "Where should I go in May on a budget? I love food.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Visit Porto.", resp.Reply)
	assert.Equal(t, 1, gen.Calls())
	assert.Contains(t, buf.String(), `"msg":"turn"`)
}

func TestNewEnrichers(t *testing.T) {
	cfg := testConfig(t)
	out, err := newEnrichers(cfg)
	require.NoError(t, err)
	assert.Empty(t, out)

	cfg.Weather.APIKey = "w"
	cfg.Maps.APIKey = "m"
	out, err = newEnrichers(cfg)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "weather", out[0].Name())
	assert.Equal(t, "places", out[1].Name())
}
