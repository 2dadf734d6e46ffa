package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveTurn(t *testing.T) {
	before := testutil.ToFloat64(turnsTotal.WithLabelValues("none", "asked"))
	ObserveTurn("", "asked")
	assert.Equal(t, before+1, testutil.ToFloat64(turnsTotal.WithLabelValues("none", "asked")))
}

func TestObserveSweep(t *testing.T) {
	before := testutil.ToFloat64(sessionsSwept)
	ObserveSweep(3, 7)
	assert.Equal(t, before+3, testutil.ToFloat64(sessionsSwept))
	assert.Equal(t, float64(7), testutil.ToFloat64(activeSessions))
}

func TestObserveGeneration(t *testing.T) {
	ObserveGeneration("ollama", 1500*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(generationSeconds))
}
