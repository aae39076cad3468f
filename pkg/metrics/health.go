package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HealthCheckDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "health",
			Name:      "check_duration_seconds",
			Help:      "Health check duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"check", "status"},
	)

	HealthChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "health",
			Name:      "checks_total",
			Help:      "Total number of health check runs",
		},
		[]string{"check", "status"},
	)

	// HealthCheckUp is 1 while the last run of a check was healthy.
	HealthCheckUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "health",
			Name:      "check_up",
			Help:      "Whether the last run of the health check was healthy (1) or not (0)",
		},
		[]string{"check"},
	)
)

func init() {
	Registry.MustRegister(HealthCheckDuration, HealthChecksTotal, HealthCheckUp)
}

// ObserveCheck records one health check run.
func ObserveCheck(check string, healthy bool, d time.Duration) {
	status := "unhealthy"
	up := 0.0
	if healthy {
		status = "healthy"
		up = 1
	}

	HealthCheckDuration.WithLabelValues(check, status).Observe(d.Seconds())
	HealthChecksTotal.WithLabelValues(check, status).Inc()
	HealthCheckUp.WithLabelValues(check).Set(up)
}
