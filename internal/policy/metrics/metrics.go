package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the policy module.
type Metrics struct {
	Bootstraps     prometheus.Counter
	EntriesUpdated prometheus.Counter
	UpdatesSkipped prometheus.Counter
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return &Metrics{
		Bootstraps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "schoolgate_policy_bootstraps_total",
			Help: "Total number of default policy set bootstraps",
		}),
		EntriesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "schoolgate_policy_entries_updated_total",
			Help: "Total number of policy entries whose allow flag was updated",
		}),
		UpdatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "schoolgate_policy_updates_skipped_total",
			Help: "Total number of update items skipped because no entry matched",
		}),
	}
}
