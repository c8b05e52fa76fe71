// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

/*
Package database provides the DuckDB-backed Zone Registry and Anomaly Store.

Both stores share one *sql.DB opened through New. The schema is created on
open with CREATE TABLE IF NOT EXISTS, so restarting against an existing file
is safe.

Tables:

	zones      id, name, polygon (JSON text, [lon, lat] pairs), active,
	           created_at, updated_at
	anomalies  id, mmsi, vessel_name, kind, lat, lon, detected_at,
	           details (JSON text), confirmed, resolved,
	           feedback_accurate, feedback_notes

Timestamps are stored as UTC TIMESTAMP values. Polygons and anomaly details
are stored as JSON text and decoded with goccy/go-json, which keeps the scan
path independent of the DuckDB json extension.

The anomaly kind column is written once by Insert. No statement in this
package updates it.
*/
package database
