// Package metrics holds the Prometheus collectors shared by the services.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UpstreamRequests counts outbound calls by service and outcome (ok, error).
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "billboard",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Outbound calls to completion, weather, geocoding and storage services",
		},
		[]string{"service", "outcome"},
	)

	// CompletionLatency observes LLM completion latency by purpose (greeting, chat).
	CompletionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "billboard",
			Subsystem: "ai",
			Name:      "completion_latency_seconds",
			Help:      "Latency of LLM completions",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 8, 13, 20},
		},
		[]string{"purpose"},
	)

	// FoodDetections counts chat turns classified as food mentions.
	FoodDetections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "billboard",
			Subsystem: "chat",
			Name:      "food_detections_total",
			Help:      "User turns that mentioned a food keyword",
		},
	)

	// PreferencesStored counts stored records by the backend that accepted them.
	PreferencesStored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "billboard",
			Subsystem: "preference",
			Name:      "stored_total",
			Help:      "Food preference records stored, by backend",
		},
		[]string{"backend"},
	)

	// StoreFallbacks counts primary-backend failures that fell back to memory.
	StoreFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "billboard",
			Subsystem: "preference",
			Name:      "fallbacks_total",
			Help:      "Primary store failures served from the in-memory fallback",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(UpstreamRequests, CompletionLatency, FoodDetections, PreferencesStored, StoreFallbacks)
}

// Outcome maps an error onto the outcome label.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
