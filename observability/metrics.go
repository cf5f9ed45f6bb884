// Package observability exposes the service's prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batepapo_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "batepapo_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Presence metrics
	ParticipantsJoined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "batepapo_participants_joined_total",
			Help: "Total participants that entered the room",
		},
	)

	Heartbeats = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "batepapo_heartbeats_total",
			Help: "Total accepted status heartbeats",
		},
	)

	ActiveParticipants = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "batepapo_active_participants",
			Help: "Participants left in the room after the last sweep",
		},
	)

	Sweeps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batepapo_sweeps_total",
			Help: "Total sweep passes",
		},
		[]string{"outcome"}, // "completed", "partial", "skipped", "failed"
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "batepapo_sweep_duration_seconds",
			Help:    "Duration of a sweep pass",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	Evictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "batepapo_evictions_total",
			Help: "Total idle participants evicted",
		},
	)

	EvictionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "batepapo_eviction_failures_total",
			Help: "Total evictions that failed and were left to the next sweep",
		},
	)

	// Chat metrics
	MessagesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batepapo_messages_posted_total",
			Help: "Total messages posted",
		},
		[]string{"type"},
	)

	MessagesCensored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "batepapo_messages_censored_total",
			Help: "Total messages altered by moderation",
		},
	)

	// Process metrics
	ProcessCPU = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "batepapo_process_cpu_percent",
			Help: "CPU usage of the server process at the last sample",
		},
	)

	ProcessRSS = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "batepapo_process_rss_bytes",
			Help: "Resident memory of the server process at the last sample",
		},
	)
)
