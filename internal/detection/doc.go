// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

/*
Package detection evaluates vessel state and produces anomalies.

# Detectors

Three detectors ship with fixed thresholds:

  - SignalLossDetector (SIGNAL_LOSS): the vessel has not reported for more
    than 30 minutes and its track began within the last 24 hours.
  - TrackDeviationDetector (TRACK_DEVIATION): with at least three history
    points, the current position lies more than 5 nm (great-circle
    cross-track distance) from the path traced by the earlier points.
  - ZoneIncursionDetector (ZONE_INCURSION): the current position lies inside
    an active zone. Only the first containing zone is reported.

Track deviation and zone incursion are vessel-scoped and run from
Engine.Evaluate on the vessels a poll pass just upserted. Signal loss is a
store-wide sweep (Engine.SweepSignalLoss) run once per pass, because the
vessels it looks for are by definition absent from the latest fetch.

# Persistence

Every finding is written to the anomaly store the moment it is produced.
A store write failure stops evaluation and is returned wrapped in
ErrPersist. A detector failure is logged, counted, and does not prevent
the other detectors from running. Findings are not deduplicated across
passes.

Persisted anomalies are handed to an optional Publisher (the event bus),
whose failures are logged only.
*/
package detection
