// Package metrics exposes Prometheus collectors for the API and its
// point ledger.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight    prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	ledgerEntries   *prometheus.CounterVec
	ledgerPoints    *prometheus.CounterVec
	sideEffectFails *prometheus.CounterVec
	balanceRepairs  prometheus.Counter
	rewardRetries   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "datecourse",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datecourse",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "datecourse",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		ledgerEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datecourse",
			Subsystem: "ledger",
			Name:      "entries_total",
			Help:      "Committed point ledger entries by action.",
		}, []string{"action"}),
		ledgerPoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datecourse",
			Subsystem: "ledger",
			Name:      "points_total",
			Help:      "Absolute points moved by committed ledger entries.",
		}, []string{"direction"}),
		sideEffectFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datecourse",
			Subsystem: "side_effects",
			Name:      "failures_total",
			Help:      "Best-effort side effects that failed and were logged.",
		}, []string{"effect"}),
		balanceRepairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "datecourse",
			Subsystem: "ledger",
			Name:      "balance_repairs_total",
			Help:      "Cached balances reset to the ledger sum.",
		}),
		rewardRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datecourse",
			Subsystem: "ledger",
			Name:      "reward_retries_total",
			Help:      "Pending favorite rewards retried by the reconciler.",
		}, []string{"outcome"}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.ledgerEntries,
		m.ledgerPoints,
		m.sideEffectFails,
		m.balanceRepairs,
		m.rewardRetries,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// The recorder methods below accept a nil receiver so services can run
// without metrics in tests.

func (m *Metrics) InFlightInc() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

func (m *Metrics) InFlightDec() {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
}

func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) LedgerEntry(action string, delta int) {
	if m == nil {
		return
	}
	m.ledgerEntries.WithLabelValues(action).Inc()
	if delta >= 0 {
		m.ledgerPoints.WithLabelValues("credit").Add(float64(delta))
	} else {
		m.ledgerPoints.WithLabelValues("debit").Add(float64(-delta))
	}
}

func (m *Metrics) SideEffectFailed(effect string) {
	if m == nil {
		return
	}
	m.sideEffectFails.WithLabelValues(effect).Inc()
}

func (m *Metrics) BalanceRepaired() {
	if m == nil {
		return
	}
	m.balanceRepairs.Inc()
}

func (m *Metrics) RewardRetried(outcome string) {
	if m == nil {
		return
	}
	m.rewardRetries.WithLabelValues(outcome).Inc()
}
