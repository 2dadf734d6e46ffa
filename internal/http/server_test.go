package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailmate/internal/ai/aitest"
	"trailmate/internal/infra"
	"trailmate/internal/modules/dialogue"
	"trailmate/internal/modules/planner"
	"trailmate/internal/modules/session"
)

type stubVerifier struct{ uid string }

func (s stubVerifier) VerifyIDToken(context.Context, string) (*infra.Identity, error) {
	return &infra.Identity{UID: s.uid}, nil
}

type recordingQuota struct{ users []string }

func (q *recordingQuota) UseToken(_ context.Context, uid string) error {
	q.users = append(q.users, uid)
	return nil
}

func newTestServer(t *testing.T, quota planner.Quota) (*httptest.Server, *aitest.Generator) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := aitest.Text("Pack layers.")
	engine := dialogue.NewEngine(dialogue.Options{
		Store:   session.NewMemoryStore(session.Options{}),
		Planner: planner.NewService(gen, planner.Options{Quota: quota, Logger: logger}),
		Logger:  logger,
	})
	srv := NewServer(ServerDeps{
		Dialogue:    engine,
		Verifier:    stubVerifier{uid: "fb-user"},
		Logger:      logger,
		CORSOrigins: []string{"http://localhost:5173"},
	})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, gen
}

func postChat(t *testing.T, ts *httptest.Server, body map[string]any, token string) map[string]any {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/chat", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestConversationOverHTTP(t *testing.T) {
	quota := &recordingQuota{}
	ts, gen := newTestServer(t, quota)

	first := postChat(t, ts, map[string]any{"message": "What should I pack for Iceland?"}, "")
	sessionID, _ := first["sessionId"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, false, first["done"])
	assert.Equal(t, "trip_length_days", first["pendingField"])
	assert.Equal(t, false, first["hasContext"])

	second := postChat(t, ts, map[string]any{"message": "6 days", "sessionId": sessionID}, "")
	assert.Equal(t, false, second["done"])
	assert.Equal(t, "month_or_season", second["pendingField"])

	third := postChat(t, ts, map[string]any{"message": "October", "sessionId": sessionID}, "token")
	assert.Equal(t, true, third["done"])
	assert.Equal(t, "Pack layers.", third["reply"])
	assert.Equal(t, float64(3), third["conversationTurn"])
	assert.Equal(t, true, third["hasContext"])
	assert.Equal(t, 1, gen.Calls())
	assert.Equal(t, []string{"fb-user"}, quota.users)

	resp, err := http.Get(ts.URL + "/chat/" + sessionID + "/history")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history struct {
		Length int `json:"length"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	assert.Equal(t, 6, history.Length)
}

func TestHealthMetricsAndCORS(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "trailmate_")

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/chat", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv := NewServer(ServerDeps{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
