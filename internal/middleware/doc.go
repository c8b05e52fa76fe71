// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

// Package middleware holds the HTTP middleware shared by the admin API:
// request ids wired into the logging context, Prometheus request metrics,
// and a structured access log.
//
// All middleware here has the chi signature func(http.Handler) http.Handler.
// Metric and log route labels use the chi route pattern, not the raw path,
// so ids in URLs do not create unbounded label values.
package middleware
