package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/tripledger/internal/apperr"
)

func TestLedger_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedger(reg)

	m.Observe("create_expense", time.Now(), nil)
	m.Observe("create_expense", time.Now(), nil)
	m.Observe("create_expense", time.Now(), apperr.BadRequest("bad split"))
	m.Retry("create_expense")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("create_expense", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("create_expense", "bad_request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retries.WithLabelValues("create_expense")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestLedger_NilIsNoop(t *testing.T) {
	var m *Ledger
	assert.NotPanics(t, func() {
		m.Observe("delete_settlement", time.Now(), nil)
		m.Retry("delete_settlement")
	})
}

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{apperr.NotFound("x"), "not_found"},
		{apperr.Forbidden("x"), "forbidden"},
		{apperr.BadRequest("x"), "bad_request"},
		{apperr.Conflict("x"), "conflict"},
		{errors.New("disk full"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Result(tt.err))
		})
	}
}
