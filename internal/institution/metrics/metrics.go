package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the institution module.
type Metrics struct {
	InstitutionsCreated prometheus.Counter
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return &Metrics{
		InstitutionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "schoolgate_institutions_created_total",
			Help: "Total number of institutions created",
		}),
	}
}
