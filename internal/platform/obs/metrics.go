package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "toursolver"

// Metrics holds the Prometheus collectors for the request pipeline.
// Build once per registry with NewMetrics; all methods are nil-safe so
// components can run without instrumentation in tests.
type Metrics struct {
	// RequestsTotal counts finished requests.
	// Labels: transport (tcp, udp), outcome (ok, decode_error, integrity_error,
	// invalid_input, rate_limited, timeout, internal_error)
	RequestsTotal *prometheus.CounterVec

	// CacheLookups counts result cache lookups. Labels: result (hit, miss)
	CacheLookups *prometheus.CounterVec

	SolveDuration prometheus.Histogram
	CacheEntries  prometheus.Gauge
	QueueDepth    prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Requests handled by transport and outcome.",
		}, []string{"transport", "outcome"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result.",
		}, []string{"result"}),
		SolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time of cache-miss solves.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		CacheEntries: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "cache_entries",
			Help:      "Entries currently held by the result cache.",
		}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "queue_depth",
			Help:      "Requests waiting for a worker.",
		}),
	}
}

func (m *Metrics) ObserveRequest(transport, outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(transport, outcome).Inc()
}

func (m *Metrics) ObserveLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) ObserveSolve(d time.Duration) {
	if m == nil {
		return
	}
	m.SolveDuration.Observe(d.Seconds())
}

func (m *Metrics) SetCacheEntries(n int) {
	if m == nil {
		return
	}
	m.CacheEntries.Set(float64(n))
}

func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}
