// Package metrics exposes application metrics collectors.
package metrics

import (
	"errors"
	"time"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	engineClaimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "digzone",
		Subsystem: "engine",
		Name:      "claims_total",
		Help:      "Count of claim attempts by outcome.",
	}, []string{"status"})

	engineClaimDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "digzone",
		Subsystem: "engine",
		Name:      "claim_duration_seconds",
		Help:      "Duration of claim attempts.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	engineVisualUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "digzone",
		Subsystem: "engine",
		Name:      "visual_updates_total",
		Help:      "Count of visual reference updates by outcome.",
	}, []string{"status"})

	engineColorUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "digzone",
		Subsystem: "engine",
		Name:      "color_updates_total",
		Help:      "Count of owner recolor attempts by outcome.",
	}, []string{"status"})

	engineDegraded = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "digzone",
		Subsystem: "engine",
		Name:      "degraded",
		Help:      "1 while writes are refused because the stored state failed validation.",
	})
)

// Engine tracks metrics for the grid engine.
type Engine struct{}

// NewEngine creates an Engine metrics collector.
func NewEngine() *Engine {
	return &Engine{}
}

// ObserveClaim records a claim outcome and duration.
func (m Engine) ObserveClaim(err error, started time.Time) {
	status := outcome(err)
	engineClaimsTotal.WithLabelValues(status).Inc()
	engineClaimDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObserveSetVisual records a visual update outcome.
func (m Engine) ObserveSetVisual(err error) {
	engineVisualUpdatesTotal.WithLabelValues(outcome(err)).Inc()
}

// ObserveSetColor records a recolor outcome.
func (m Engine) ObserveSetColor(err error) {
	engineColorUpdatesTotal.WithLabelValues(outcome(err)).Inc()
}

// SetDegraded flips the degraded gauge.
func (m Engine) SetDegraded(degraded bool) {
	if degraded {
		engineDegraded.Set(1)
		return
	}
	engineDegraded.Set(0)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, grid.ErrAlreadyClaimed):
		return "conflict"
	case errors.Is(err, grid.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, grid.ErrInvalidArgument):
		return "invalid"
	case errors.Is(err, grid.ErrQuotaExceeded):
		return "quota"
	case errors.Is(err, grid.ErrNotOwner):
		return "forbidden"
	case errors.Is(err, grid.ErrCorruptState):
		return "corrupt"
	default:
		return "error"
	}
}
