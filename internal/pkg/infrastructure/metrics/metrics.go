package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace string = "rdf_to_ngsi_ld"

const (
	PassSucceeded string = "ok"
	PassFailed    string = "failed"
)

// Metrics holds the counters of one running translator. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	passes        *prometheus.CounterVec // by status: ok, failed
	passDuration  prometheus.Histogram
	entities      *prometheus.CounterVec // by operation: created, updated, failed
	mappingErrors prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Total number of translation passes",
		}, []string{"status"}),

		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of a translation pass including broker sync",
			Buckets:   prometheus.DefBuckets,
		}),

		entities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_total",
			Help:      "Total number of entities handed to the context broker",
		}, []string{"operation"}),

		mappingErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mapping_errors_total",
			Help:      "Total number of subjects that could not be mapped to an entity",
		}),
	}

	m.registry.MustRegister(m.passes, m.passDuration, m.entities, m.mappingErrors)

	return m
}

func (m *Metrics) PassCompleted(status string, duration time.Duration) {
	if m == nil {
		return
	}

	m.passes.WithLabelValues(status).Inc()
	m.passDuration.Observe(duration.Seconds())
}

func (m *Metrics) EntitySynced(operation string) {
	if m == nil {
		return
	}

	m.entities.WithLabelValues(operation).Inc()
}

func (m *Metrics) MappingFailed(count int) {
	if m == nil || count <= 0 {
		return
	}

	m.mappingErrors.Add(float64(count))
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
