package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentParsesAndCaches(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "Kyoto", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "k", r.URL.Query().Get("appid"))
		_, _ = w.Write([]byte(`{"name":"Kyoto","sys":{"country":"JP"},"main":{"temp":12.6,"feels_like":11.2,"humidity":70},"weather":[{"description":"light rain"}],"wind":{"speed":3.14}}`))
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, time.Minute)
	got, err := c.Current(context.Background(), "Kyoto")
	require.NoError(t, err)
	assert.Equal(t, Conditions{
		Location: "Kyoto", Country: "JP", Temperature: 13, FeelsLike: 11,
		Humidity: 70, Description: "light rain", WindSpeed: 3.1,
	}, got)
	assert.Contains(t, got.Summary(), "light rain")

	_, err = c.Current(context.Background(), " kyoto ")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCurrentErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient("", srv.URL, 0).Current(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient("k", srv.URL, 0).Current(context.Background(), "Atlantis")
	assert.ErrorContains(t, err, "status 404")
}
