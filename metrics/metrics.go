// Package metrics records timing and outcome counts for G2 group operations
// on a private Prometheus registry. The registry is private so that several
// recorders (one per benchmark run, one per test) never collide.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// OpRecorder tracks per-operation latency and outcome counts. It is safe for
// concurrent use.
type OpRecorder struct {
	namespace string
	registry  *prometheus.Registry
	duration  *prometheus.HistogramVec
	total     *prometheus.CounterVec
}

// NewOpRecorder returns a recorder whose metric names are prefixed with
// namespace (for example "g2" yields g2_op_duration_seconds).
func NewOpRecorder(namespace string) *OpRecorder {
	r := &OpRecorder{
		namespace: namespace,
		registry:  prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "op_duration_seconds",
			Help:      "Latency of G2 group operations.",
			// 1us .. ~4s
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op"}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "op_total",
			Help:      "Number of G2 group operations by outcome.",
		}, []string{"op", "result"}),
	}
	r.registry.MustRegister(r.duration, r.total)
	return r
}

// Observe records one operation that started at start. A non-nil err counts
// the call as failed.
func (r *OpRecorder) Observe(op string, start time.Time, err error) {
	r.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	r.total.WithLabelValues(op, result).Inc()
}

// Time runs fn and records its duration and outcome under op.
func (r *OpRecorder) Time(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.Observe(op, start, err)
	return err
}

// Registry exposes the underlying registry, e.g. for serving over HTTP.
func (r *OpRecorder) Registry() *prometheus.Registry { return r.registry }
