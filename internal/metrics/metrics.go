// Package metrics exposes Prometheus collectors for ledger activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/tripledger/internal/apperr"
)

const namespace = "tripledger"

// Ledger counts ledger mutations, their retries and their latency.
// A nil *Ledger records nothing.
type Ledger struct {
	mutations *prometheus.CounterVec
	retries   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewLedger creates the ledger collectors and registers them with reg.
func NewLedger(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "mutations_total",
			Help:      "Ledger mutations by operation and outcome.",
		}, []string{"op", "result"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "conflict_retries_total",
			Help:      "Transactions retried after a storage conflict.",
		}, []string{"op"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "mutation_duration_seconds",
			Help:      "Time spent in ledger mutations, retries included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(m.mutations, m.retries, m.duration)
	return m
}

// Observe records one finished mutation.
func (m *Ledger) Observe(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, Result(err)).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// Retry records a transaction retried after a conflict.
func (m *Ledger) Retry(op string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(op).Inc()
}

// Result maps an error to its metric label.
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	switch apperr.Kind(err) {
	case apperr.ErrNotFound:
		return "not_found"
	case apperr.ErrForbidden:
		return "forbidden"
	case apperr.ErrBadRequest:
		return "bad_request"
	case apperr.ErrConflict:
		return "conflict"
	}
	return "error"
}
