// README: Prometheus collectors for turns, planning, generation latency and sessions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailmate_turns_total",
			Help: "Dialogue turns processed, by resolved intent and outcome",
		},
		[]string{"intent", "outcome"},
	)
	plannerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailmate_planner_requests_total",
			Help: "Planner dispatches, by intent and result",
		},
		[]string{"intent", "result"},
	)
	generationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trailmate_generation_seconds",
			Help:    "Latency of text-generation calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)
	sessionsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trailmate_sessions_swept_total",
			Help: "Sessions evicted for inactivity",
		},
	)
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trailmate_active_sessions",
			Help: "Sessions alive after the last sweep",
		},
	)
)

func init() {
	prometheus.MustRegister(turnsTotal)
	prometheus.MustRegister(plannerRequests)
	prometheus.MustRegister(generationSeconds)
	prometheus.MustRegister(sessionsSwept)
	prometheus.MustRegister(activeSessions)
}

func ObserveTurn(intent, outcome string) {
	if intent == "" {
		intent = "none"
	}
	turnsTotal.WithLabelValues(intent, outcome).Inc()
}

func ObservePlanner(intent, result string) {
	plannerRequests.WithLabelValues(intent, result).Inc()
}

func ObserveGeneration(provider string, d time.Duration) {
	generationSeconds.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveSweep matches session.SweepHook.
func ObserveSweep(removed, remaining int) {
	sessionsSwept.Add(float64(removed))
	activeSessions.Set(float64(remaining))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
