// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

/*
Package poller drives the ingestion pipeline on a fixed cadence.

A pass lists the active zones, and for each one fetches the reports inside
the zone's padded bounding box, upserts every valid report, and evaluates
the upserted vessels. One zone failing (bad polygon, provider error) is
logged and the pass moves on. After all zones the signal-loss sweep runs
once. Only store failures (zones cannot be listed, anomalies cannot be
written) end a pass early.

# States

	IDLE     --tick-->  POLLING   (also on the immediate first tick)
	POLLING  --done-->  IDLE
	any      --Stop-->  STOPPED

Start returns an owned *Handle; starting again while running returns the
same handle and does not create a second timer. Stop prevents the next
tick; it does not cancel a pass already in flight.

The ticker is injectable through WithTickerFactory so tests can drive
passes without waiting on wall-clock time.
*/
package poller
