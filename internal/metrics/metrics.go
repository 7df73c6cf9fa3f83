// Package metrics provides Prometheus metrics for the verification core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors used by the service and the
// HTTP boundary. Collectors are registered on the provided registerer so
// tests can use a throwaway registry.
type Metrics struct {
	VerificationsTotal  *prometheus.CounterVec // labels: method, result
	LedgerAppendsFailed prometheus.Counter
	RequestDuration     *prometheus.HistogramVec // labels: path (route pattern), status
}

// New creates and registers all collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		VerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_verifications_total",
				Help: "Verification attempts by method and result",
			},
			[]string{"method", "result"},
		),
		LedgerAppendsFailed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "vault_ledger_append_failures_total",
				Help: "Ledger appends that failed after a successful verification",
			},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vault_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "status"},
		),
	}
	reg.MustRegister(m.VerificationsTotal, m.LedgerAppendsFailed, m.RequestDuration)
	return m
}

// Verification observation result labels.
const (
	ResultValid    = "valid"
	ResultInvalid  = "invalid"
	ResultError    = "error"
	ResultConflict = "conflict"
)
