// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

// Package logging provides the process-wide zerolog logger for Tidewatch.
//
// JSON output is the default; console output is available for local runs.
// The level, format and caller flag come from the logging section of the
// configuration (LOG_LEVEL, LOG_FORMAT, LOG_CALLER).
//
// # Usage
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Str("provider", "datalastic").Msg("Feed ready")
//
// Each poll pass runs under its own correlation ID so that every line it
// emits, from the feed call to the alert dispatch, can be grouped:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Int("zones", len(zones)).Msg("Poll pass started")
//
// Always finish an event chain with Msg or Send; otherwise nothing is written.
//
// # slog
//
// Suture reports supervisor events through log/slog. NewSlogLogger returns a
// *slog.Logger whose records are written by the global zerolog logger.
package logging
