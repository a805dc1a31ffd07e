package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics records register mutations. A nil *RegisterMetrics is a no-op.
type RegisterMetrics struct {
	commits *prometheus.CounterVec
	balance *prometheus.GaugeVec
	entries *prometheus.GaugeVec
}

// NewRegisterMetrics registers the register metrics on the provided registerer.
func NewRegisterMetrics(reg prometheus.Registerer) *RegisterMetrics {
	if reg == nil {
		return &RegisterMetrics{}
	}
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cassa_register_mutations_total",
		Help: "Saved register mutations by action.",
	}, []string{"action"})
	balance := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cassa_register_balance",
		Help: "Current cash balance per owner.",
	}, []string{"owner"})
	entries := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cassa_register_ledger_entries",
		Help: "Number of ledger entries per owner.",
	}, []string{"owner"})
	reg.MustRegister(commits, balance, entries)
	return &RegisterMetrics{commits: commits, balance: balance, entries: entries}
}

// RegisterCommitted implements the commit observer.
func (m *RegisterMetrics) RegisterCommitted(_ context.Context, r *domain.Register, action string) {
	if m == nil || m.commits == nil || r == nil {
		return
	}
	m.commits.WithLabelValues(normalizeLabel(action)).Inc()
	balance, _ := r.Balance.Float64()
	m.balance.WithLabelValues(normalizeLabel(r.OwnerID)).Set(balance)
	m.entries.WithLabelValues(normalizeLabel(r.OwnerID)).Set(float64(len(r.Ledger)))
}

// SyncMetrics records remote mirror pushes and pulls.
type SyncMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cassa_sync_duration_seconds",
		Help:    "Duration of remote sync operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cassa_sync_success_total",
		Help: "Successful remote sync operations.",
	}, []string{"op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cassa_sync_failure_total",
		Help: "Failed remote sync operations.",
	}, []string{"op"})
	reg.MustRegister(duration, success, failure)
	return &SyncMetrics{duration: duration, success: success, failure: failure}
}

// Observe records one sync operation.
func (m *SyncMetrics) Observe(op string, took time.Duration, err error) {
	if m == nil || m.duration == nil {
		return
	}
	op = normalizeLabel(op)
	m.duration.WithLabelValues(op).Observe(took.Seconds())
	if err != nil {
		m.failure.WithLabelValues(op).Inc()
		return
	}
	m.success.WithLabelValues(op).Inc()
}

// HTTPMetrics records request counts and latencies.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cassa_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cassa_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	reg.MustRegister(requests, latency)
	return &HTTPMetrics{requests: requests, latency: latency}
}

// ObserveRequest records one served request.
func (m *HTTPMetrics) ObserveRequest(route, method string, status int, took time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(took.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
