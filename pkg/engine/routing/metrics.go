package routing

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeFound   = "found"
	outcomeNoPath  = "no_path"
	outcomeInvalid = "invalid_endpoint"
)

var (
	routeQueryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trafficrouter_route_query_total",
		Help: "Total route queries by algorithm and outcome",
	}, []string{"algorithm", "outcome"})

	routeQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trafficrouter_route_query_duration_seconds",
		Help:    "Route query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 16),
	}, []string{"algorithm"})

	routeSegmentCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trafficrouter_route_segment_count",
		Help:    "Number of segments per found route",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
	})
)

func observeQuery(algorithm, outcome string, start time.Time, segments int) {
	routeQueryTotal.WithLabelValues(algorithm, outcome).Inc()
	routeQueryDuration.WithLabelValues(algorithm).Observe(time.Since(start).Seconds())
	if outcome == outcomeFound {
		routeSegmentCount.Observe(float64(segments))
	}
}
