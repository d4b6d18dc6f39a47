package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus instruments mirroring the engine counters.
type Metrics struct {
	Queries            prometheus.Counter
	Responses          *prometheus.CounterVec
	LearningEvents     *prometheus.CounterVec
	TrainingEntries    prometheus.Counter
	KnowledgeEntries   prometheus.Gauge
	ResponseConfidence prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Queries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "User queries handled by the engine.",
		}),
		Responses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Responses by outcome: base_template or deferred to external.",
		}, []string{"outcome"}),
		LearningEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "learning_events_total",
			Help:      "Learning events by result: learned or rejected.",
		}, []string{"result"}),
		TrainingEntries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_entries_total",
			Help:      "Knowledge entries added via bulk training.",
		}),
		KnowledgeEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "knowledge_entries",
			Help:      "Current number of stored knowledge entries.",
		}),
		ResponseConfidence: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "response_confidence",
			Help:      "Confidence of synthesized responses.",
			Buckets:   []float64{0.1, 0.3, 0.5, 0.7, 0.8, 0.9, 0.95, 1},
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
