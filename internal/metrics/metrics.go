package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts coupon registration attempts by outcome.
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raffle_registrations_total",
			Help: "Number of coupon registration attempts",
		},
		[]string{"status"}, // created, duplicate, invalid, error
	)

	// DrawsTotal counts raffle draws by outcome.
	DrawsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raffle_draws_total",
			Help: "Number of raffle draws",
		},
		[]string{"status"}, // committed, empty, error
	)

	// DrawDuration tracks the latency of a full draw including the spin.
	DrawDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "raffle_draw_duration_seconds",
			Help:    "Duration of raffle draws in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
	)

	// EventSubscribers gauges active change notification subscribers.
	EventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raffle_event_subscribers",
			Help: "Number of connected change notification subscribers",
		},
	)
)
