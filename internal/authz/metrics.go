package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains authorization metrics.
type Metrics struct {
	registerer prometheus.Registerer

	// evaluationTotal counts total authorization evaluations.
	evaluationTotal *prometheus.CounterVec

	// evaluationDuration measures authorization evaluation duration.
	evaluationDuration prometheus.Histogram

	// decisionTotal counts authorization decisions per policy.
	decisionTotal *prometheus.CounterVec

	// cacheHits counts decision cache hits.
	cacheHits prometheus.Counter

	// cacheMisses counts decision cache misses.
	cacheMisses prometheus.Counter

	// policyCount tracks the number of loaded policies.
	policyCount prometheus.Gauge

	// reloadTotal counts policy reload attempts.
	reloadTotal *prometheus.CounterVec
}

// NewMetrics creates new authorization metrics registered with
// prometheus.DefaultRegisterer.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegisterer(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer creates a new Metrics instance with a custom
// registerer. Duplicate registrations are ignored so tests can create
// multiple instances.
func NewMetricsWithRegisterer(namespace string, registerer prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "aviam"
	}

	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		registerer: registerer,
	}

	m.evaluationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "evaluation_total",
			Help:      "Total number of authorization evaluations",
		},
		[]string{"result"},
	)

	m.evaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "evaluation_duration_seconds",
			Help:      "Authorization evaluation duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	m.decisionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "decision_total",
			Help:      "Total number of authorization decisions",
		},
		[]string{"decision", "policy"},
	)

	m.cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "cache_hits_total",
			Help:      "Total number of decision cache hits",
		},
	)

	m.cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "cache_misses_total",
			Help:      "Total number of decision cache misses",
		},
	)

	m.policyCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "policy_count",
			Help:      "Number of loaded authorization policies",
		},
	)

	m.reloadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "policy_reload_total",
			Help:      "Total number of policy reload attempts",
		},
		[]string{"result"},
	)

	collectors := []prometheus.Collector{
		m.evaluationTotal,
		m.evaluationDuration,
		m.decisionTotal,
		m.cacheHits,
		m.cacheMisses,
		m.policyCount,
		m.reloadTotal,
	}
	for _, c := range collectors {
		_ = registerer.Register(c)
	}

	return m
}

// RecordEvaluation records an authorization evaluation.
func (m *Metrics) RecordEvaluation(result string, duration time.Duration) {
	if m == nil || m.evaluationTotal == nil {
		return
	}
	m.evaluationTotal.WithLabelValues(result).Inc()
	m.evaluationDuration.Observe(duration.Seconds())
}

// RecordDecision records an authorization decision.
func (m *Metrics) RecordDecision(decision, policy string) {
	if m == nil || m.decisionTotal == nil {
		return
	}
	m.decisionTotal.WithLabelValues(decision, policy).Inc()
}

// RecordCacheHit records a decision cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.Inc()
}

// RecordCacheMiss records a decision cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil || m.cacheMisses == nil {
		return
	}
	m.cacheMisses.Inc()
}

// SetPolicyCount sets the loaded policy count.
func (m *Metrics) SetPolicyCount(count int) {
	if m == nil || m.policyCount == nil {
		return
	}
	m.policyCount.Set(float64(count))
}

// RecordReload records a policy reload attempt.
func (m *Metrics) RecordReload(result string) {
	if m == nil || m.reloadTotal == nil {
		return
	}
	m.reloadTotal.WithLabelValues(result).Inc()
}
