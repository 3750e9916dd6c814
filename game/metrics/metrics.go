// Package metrics holds the Prometheus collectors for the simulator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// RobotsDispatched counts robots by final status (ok, lost)
	RobotsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marsrobots_robots_dispatched_total",
			Help: "Total number of robots dispatched, by final status.",
		},
		[]string{"status"},
	)

	// ScentsLeft counts new scent entries
	ScentsLeft = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marsrobots_scents_left_total",
			Help: "Total number of scents left by lost robots.",
		},
	)

	// SuppressedMoves counts forward moves ignored because of a scent
	SuppressedMoves = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marsrobots_suppressed_moves_total",
			Help: "Total number of forward moves ignored because of a scent.",
		},
	)

	// SessionsActive is the number of sessions held in memory
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "marsrobots_sessions_active",
			Help: "Number of active simulation sessions.",
		},
	)

	// RunDuration records batch run latency
	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marsrobots_run_duration_seconds",
			Help:    "Duration of simulation runs and dispatches.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"}, // kind: run/dispatch
	)
)

// Registry is the registry served at /metrics
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(RobotsDispatched)
	Registry.MustRegister(ScentsLeft)
	Registry.MustRegister(SuppressedMoves)
	Registry.MustRegister(SessionsActive)
	Registry.MustRegister(RunDuration)
	Registry.MustRegister(collectors.NewGoCollector())
}

// ObserveReport records one finished robot
func ObserveReport(lost bool, scentAdded bool, suppressed int) {
	status := "ok"
	if lost {
		status = "lost"
	}
	RobotsDispatched.WithLabelValues(status).Inc()
	if scentAdded {
		ScentsLeft.Inc()
	}
	if suppressed > 0 {
		SuppressedMoves.Add(float64(suppressed))
	}
}
