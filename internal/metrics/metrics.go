package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	StatusResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelfd",
			Name:      "status_resolutions_total",
			Help:      "Count of status resolutions by resolved state.",
		},
		[]string{"state"},
	)

	FeedEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelfd",
			Name:      "feed_events_total",
			Help:      "Count of transfer-engine feed events by kind.",
		},
		[]string{"kind"},
	)

	ActionDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelfd",
			Name:      "action_dispatches_total",
			Help:      "Count of action dispatches by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	SeedingEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shelfd",
			Name:      "seeding_entries",
			Help:      "Number of entries currently reporting seeding throughput.",
		},
	)
)

// Register registers the shelfd metrics into the default registry.
func Register() {
	prometheus.MustRegister(StatusResolutions, FeedEvents, ActionDispatches, SeedingEntries)
}
