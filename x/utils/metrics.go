package utils

import (
	"strconv"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects prometheus metrics of every processed message: the call
// count per path, phase and result code and the call duration.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ vault.Decorator = (*Metrics)(nil)

// NewMetrics registers the collectors with given registerer. Use
// prometheus.DefaultRegisterer to expose them on the default handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vault",
			Name:      "calls_total",
			Help:      "Number of processed messages.",
		}, []string{"phase", "path", "code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vault",
			Name:      "call_duration_seconds",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"phase", "path"}),
	}
}

func (m *Metrics) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	path := vault.GetPath(tx)
	t := prometheus.NewTimer(m.duration.WithLabelValues("check", path))
	defer t.ObserveDuration()

	res, err := next.Check(ctx, db, tx)
	m.calls.WithLabelValues("check", path, resultCode(err)).Inc()
	return res, err
}

func (m *Metrics) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	path := vault.GetPath(tx)
	t := prometheus.NewTimer(m.duration.WithLabelValues("deliver", path))
	defer t.ObserveDuration()

	res, err := next.Deliver(ctx, db, tx)
	m.calls.WithLabelValues("deliver", path, resultCode(err)).Inc()
	return res, err
}

func resultCode(err error) string {
	code, _ := errors.ABCIInfo(err, false)
	return strconv.FormatUint(uint64(code), 10)
}
