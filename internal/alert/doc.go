// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

// Package alert renders anomaly messages and delivers them to an operator.
//
// Delivery happens only on explicit request (POST /api/v1/anomalies/{id}/alert)
// and is attempted exactly once. A failed attempt is reported to the caller
// as ErrDelivery; nothing is queued or retried.
//
// Two dispatchers exist: Twilio SMS (form POST to the Messages resource with
// basic auth) and a generic JSON webhook.
package alert
