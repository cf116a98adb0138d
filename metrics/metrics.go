// Package metrics holds the Prometheus collectors of the authoritative loop. They
// register with the default registry and are served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quadpong"

var (
	Ticks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticks_total",
		Help:      "Simulation ticks executed.",
	})
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tick_duration_seconds",
		Help:      "Time spent advancing and broadcasting one tick.",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
	})
	PaddleHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "paddle_hits_total",
		Help:      "Ball returns by side.",
	}, []string{"side"})
	Misses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "misses_total",
		Help:      "Balls lost through an occupied side.",
	}, []string{"side"})
	Matches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matches_total",
		Help:      "Match lifecycle transitions.",
	}, []string{"event"})
	Participants = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "participants",
		Help:      "Seated participants.",
	})
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections",
		Help:      "Attached transport connections.",
	})
	Frames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_sent_total",
		Help:      "Outbound frames queued, by kind.",
	}, []string{"kind"})
	DroppedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_dropped_total",
		Help:      "Outbound frames dropped because a connection was slow or closed.",
	})
	Rejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "join_rejections_total",
		Help:      "Joins refused because the roster was full.",
	})
	ResultsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "results_published_total",
		Help:      "Match results handed to the results publisher, by outcome.",
	}, []string{"outcome"})
)
