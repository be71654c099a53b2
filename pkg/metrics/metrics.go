package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream call outcomes
const (
	OutcomeOK           = "ok"
	OutcomeHTTPError    = "http_error"
	OutcomeInvalidJSON  = "invalid_json"
	OutcomeTransportErr = "transport_error"
)

// QueryMetrics records upstream latency and which table shapes get projected.
type QueryMetrics struct {
	upstream    *prometheus.HistogramVec
	projections *prometheus.CounterVec
}

// NewQueryMetrics registers the query metrics on the provided registerer.
// A nil registerer yields a recorder that drops everything.
func NewQueryMetrics(reg prometheus.Registerer) *QueryMetrics {
	if reg == nil {
		return &QueryMetrics{}
	}
	upstream := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_query_duration_seconds",
		Help:    "Duration of analytics backend queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"domain", "outcome"})
	projections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "query_projections_total",
		Help: "Projected query results by table shape.",
	}, []string{"shape"})
	reg.MustRegister(upstream, projections)
	return &QueryMetrics{
		upstream:    upstream,
		projections: projections,
	}
}

// ObserveUpstream records one backend round trip.
func (m *QueryMetrics) ObserveUpstream(domain, outcome string, duration time.Duration) {
	if m == nil || m.upstream == nil {
		return
	}
	m.upstream.WithLabelValues(normalizeLabel(domain), normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncProjection counts a projected result. Results without a table use shape "none".
func (m *QueryMetrics) IncProjection(shape string) {
	if m == nil || m.projections == nil {
		return
	}
	if shape == "" {
		shape = "none"
	}
	m.projections.WithLabelValues(shape).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
