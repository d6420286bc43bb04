package metrics

import (
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// WriteText renders every metric of the recorder in the Prometheus text
// exposition format.
func (r *OpRecorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Handler serves the recorder's metrics at a /metrics style endpoint.
func (r *OpRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Count returns the number of recorded calls of op with the given result.
func (r *OpRecorder) Count(op, result string) (float64, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return 0, err
	}
	for _, mf := range families {
		if mf.GetName() != r.totalName() {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue(m, "op") == op && labelValue(m, "result") == result {
				return m.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func (r *OpRecorder) totalName() string {
	return prometheus.BuildFQName(r.namespace, "", "op_total")
}
