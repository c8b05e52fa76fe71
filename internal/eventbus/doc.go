// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

// Package eventbus carries anomaly-detected events between the detection
// engine and live consumers such as the WebSocket feed.
//
// The bus is a thin wrapper over Watermill. With no NATS URL configured it
// uses the in-process gochannel Pub/Sub; otherwise it connects to an external
// NATS server (core NATS, or JetStream when enabled). Events are JSON
// AnomalyEvent envelopes published on a single topic, tidewatch.anomalies by
// default.
//
// Publishing is best-effort. The engine logs publish failures and carries on;
// the anomaly is already persisted by then.
package eventbus
