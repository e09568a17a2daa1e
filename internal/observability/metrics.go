package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	Turns        *prometheus.CounterVec
	ToolCalls    *prometheus.CounterVec
	EngineRounds prometheus.Histogram
	TurnDuration prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Turns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Completed turns by application and outcome.",
		}, []string{"app", "outcome"}),
		ToolCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		EngineRounds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engine_rounds_per_turn",
			Help:      "Engine round trips (model calls) per turn.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 10},
		}),
		TurnDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "End-to-end turn latency in seconds.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 15, 30},
		}),
	}
}

func (m *Metrics) ObserveTurn(app, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(app, outcome).Inc()
	m.TurnDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveToolCall(tool, outcome string) {
	if m == nil {
		return
	}
	m.ToolCalls.WithLabelValues(tool, outcome).Inc()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
