package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "digzone",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Count of store operations.",
	}, []string{"operation", "backend", "status"})
	storeOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "digzone",
		Subsystem: "store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of store operations.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation", "backend", "status"})
)

// Store tracks metrics for one store backend.
type Store struct {
	backend string
}

// NewStore creates a Store metrics collector for backend.
func NewStore(backend string) *Store {
	if backend == "" {
		backend = "unknown"
	}
	return &Store{backend: backend}
}

// Observe records duration and status of a store operation.
func (m Store) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = outcome(err)
	}
	storeOperationsTotal.WithLabelValues(operation, m.backend, status).Inc()
	storeOperationDuration.WithLabelValues(operation, m.backend, status).Observe(time.Since(started).Seconds())
}
