package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the presence module.
type Metrics struct {
	Checks *prometheus.CounterVec
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return &Metrics{
		Checks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolgate_presence_checks_total",
			Help: "Total number of presence verifications by result",
		}, []string{"result"}),
	}
}

// ObserveCheck records one verification result.
func (m *Metrics) ObserveCheck(onPremises bool) {
	result := "off_premises"
	if onPremises {
		result = "on_premises"
	}
	m.Checks.WithLabelValues(result).Inc()
}
