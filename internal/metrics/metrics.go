// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tidewatch"

var (
	// Poller
	PollPasses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_passes_total",
			Help:      "Total number of completed poll passes",
		},
	)

	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of a full poll pass over all active zones",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	ZoneErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_errors_total",
			Help:      "Total number of zones skipped in a pass because of an error",
		},
		[]string{"zone"},
	)

	// Feed
	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_requests_total",
			Help:      "Total number of position feed requests",
		},
		[]string{"provider", "status"}, // "ok", "error", "rejected"
	)

	FeedReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_reports_total",
			Help:      "Total number of valid vessel reports returned by the feed",
		},
		[]string{"provider"},
	)

	VesselsUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vessels_upserted_total",
			Help:      "Total number of vessel upserts",
		},
	)

	// Detection
	AnomaliesDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_detected_total",
			Help:      "Total number of persisted anomalies",
		},
		[]string{"kind"},
	)

	DetectorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detector_errors_total",
			Help:      "Total number of detector failures",
		},
		[]string{"kind"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_transitions_total",
			Help:      "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Alerts
	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_sent_total",
			Help:      "Total number of alert delivery attempts",
		},
		[]string{"channel", "result"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of admin API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of admin API requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Streaming
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Current number of live anomaly feed clients",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of anomaly events published to the bus",
		},
		[]string{"result"},
	)
)

// RecordPollPass records one completed pass.
func RecordPollPass(duration time.Duration) {
	PollPasses.Inc()
	PollDuration.Observe(duration.Seconds())
}

// RecordFeedRequest records a provider call. reports is ignored unless err is nil.
func RecordFeedRequest(provider string, reports int, err error) {
	if err != nil {
		FeedRequests.WithLabelValues(provider, "error").Inc()
		return
	}
	FeedRequests.WithLabelValues(provider, "ok").Inc()
	FeedReports.WithLabelValues(provider).Add(float64(reports))
}

// RecordAlert records one dispatch attempt.
func RecordAlert(channel string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	AlertsSent.WithLabelValues(channel, result).Inc()
}

// RecordAPIRequest records one admin API request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// BreakerStateValue maps a breaker state name to the gauge encoding.
func BreakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}
