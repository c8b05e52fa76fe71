// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

/*
Package metrics registers the Prometheus collectors for Tidewatch.

All collectors are created with promauto against the default registry and
exported at /metrics by the admin API (promhttp).

# Pipeline

	tidewatch_poll_passes_total                       completed poll passes
	tidewatch_poll_duration_seconds                   pass wall time
	tidewatch_zone_errors_total{zone}                 zones whose fetch or evaluation failed
	tidewatch_feed_requests_total{provider,status}    provider calls by outcome
	tidewatch_feed_reports_total{provider}            valid reports returned
	tidewatch_vessels_upserted_total                  vessel store upserts
	tidewatch_anomalies_detected_total{kind}          persisted findings
	tidewatch_detector_errors_total{kind}             detector failures
	tidewatch_circuit_breaker_state{name}             0 closed, 1 half-open, 2 open

# Delivery and API

	tidewatch_alerts_sent_total{channel,result}
	tidewatch_api_requests_total{method,route,status}
	tidewatch_api_request_duration_seconds{method,route}
	tidewatch_websocket_connections
	tidewatch_events_published_total{result}
*/
package metrics
