package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"

	"ideaforge/internal/apperr"
)

// Metrics counts flow completions by outcome kind.
type Metrics struct {
	Flows *prometheus.CounterVec
}

// NewMetrics creates and registers the pipeline metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	flows := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideaforge_pipeline_flows_total",
			Help: "Pipeline flow completions by flow and outcome.",
		},
		[]string{"flow", "outcome"},
	)
	reg.MustRegister(flows)

	return &Metrics{Flows: flows}
}

func (m *Metrics) observe(flow string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
		if kind := apperr.KindOf(err); kind != "" {
			outcome = string(kind)
		}
	}
	m.Flows.WithLabelValues(flow, outcome).Inc()
}
