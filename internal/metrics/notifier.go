package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notifierOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "digzone",
		Subsystem: "notifier",
		Name:      "notifications_total",
		Help:      "Count of verification notifications by outcome.",
	}, []string{"outcome"})

	notifierDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "digzone",
		Subsystem: "notifier",
		Name:      "notification_duration_seconds",
		Help:      "Duration of verification webhook calls.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2, 5},
	}, []string{"outcome"})

	notifierDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "digzone",
		Subsystem: "notifier",
		Name:      "dropped_total",
		Help:      "Count of notifications dropped because the dispatch buffer was full.",
	})
)

// Notifier tracks metrics for verification notifications.
type Notifier struct{}

// NewNotifier creates a Notifier metrics collector.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Observe records a notification outcome (delivered, skipped, failed) and duration.
func (m Notifier) Observe(outcome string, started time.Time) {
	notifierOutcomesTotal.WithLabelValues(outcome).Inc()
	notifierDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

// ObserveDropped records a notification that never left the process.
func (m Notifier) ObserveDropped() {
	notifierDroppedTotal.Inc()
	notifierOutcomesTotal.WithLabelValues("failed").Inc()
}
