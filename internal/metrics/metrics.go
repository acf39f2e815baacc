package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SalesRecorded    prometheus.Counter
	RestocksRecorded prometheus.Counter
	SalesAmended     prometheus.Counter
	PartialCommits   prometheus.Counter
	RecordFailures   *prometheus.CounterVec
	ReconcileOrphans prometheus.Counter
	ReconcileRepairs prometheus.Counter
}

// New creates the collectors under the given namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
	m.SalesRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_recorded_total",
		Help:      "Sales committed together with their ledger entry",
	})
	m.RestocksRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restocks_recorded_total",
		Help:      "Restock ledger entries appended",
	})
	m.SalesAmended = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_amended_total",
		Help:      "Sale settlement/attribution amendments",
	})
	m.PartialCommits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "partial_commits_total",
		Help:      "Sales whose row was written but whose ledger entry failed",
	})
	m.RecordFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_failures_total",
			Help:      "Failed recording operations by operation and error kind",
		},
		[]string{"operation", "kind"},
	)
	m.ReconcileOrphans = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_orphans_total",
		Help:      "Sales found without a ledger entry",
	})
	m.ReconcileRepairs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_repairs_total",
		Help:      "Missing sale ledger entries appended by the reconciler",
	})

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SalesRecorded,
		m.RestocksRecorded,
		m.SalesAmended,
		m.PartialCommits,
		m.RecordFailures,
		m.ReconcileOrphans,
		m.ReconcileRepairs,
	)

	return m
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordSale() {
	if m == nil {
		return
	}
	m.SalesRecorded.Inc()
}

func (m *Metrics) RecordRestock() {
	if m == nil {
		return
	}
	m.RestocksRecorded.Inc()
}

func (m *Metrics) RecordAmend() {
	if m == nil {
		return
	}
	m.SalesAmended.Inc()
}

func (m *Metrics) RecordPartialCommit() {
	if m == nil {
		return
	}
	m.PartialCommits.Inc()
}

func (m *Metrics) RecordFailure(operation, kind string) {
	if m == nil {
		return
	}
	m.RecordFailures.WithLabelValues(operation, kind).Inc()
}

func (m *Metrics) RecordReconcile(orphans, repaired int) {
	if m == nil {
		return
	}
	m.ReconcileOrphans.Add(float64(orphans))
	m.ReconcileRepairs.Add(float64(repaired))
}
