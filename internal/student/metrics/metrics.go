package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the student module.
type Metrics struct {
	StudentsRegistered prometheus.Counter
	DuplicateDevices   prometheus.Counter
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return &Metrics{
		StudentsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "schoolgate_students_registered_total",
			Help: "Total number of students registered",
		}),
		DuplicateDevices: promauto.NewCounter(prometheus.CounterOpts{
			Name: "schoolgate_duplicate_device_registrations_total",
			Help: "Total number of registrations rejected for a duplicate hardware device id",
		}),
	}
}
