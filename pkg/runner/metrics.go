package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficrouter_simulation_steps_total",
		Help: "Total simulation steps advanced by the control loop",
	})

	simulationTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trafficrouter_simulation_time_seconds",
		Help: "Simulator clock at the last cost refresh",
	})

	refreshTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficrouter_cost_refresh_total",
		Help: "Total cost estimator refreshes",
	})

	routeAssignments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trafficrouter_route_assignments_total",
		Help: "Route assignments by result",
	}, []string{"result"}) // "declared", "resampled", "skipped"

	resampleTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficrouter_endpoint_resamples_total",
		Help: "Total endpoint pairs redrawn after an unreachable pair",
	})
)
