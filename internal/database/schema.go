// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/tidewatch/internal/logging"
)

var schemaQueries = []string{
	`CREATE TABLE IF NOT EXISTS zones (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		polygon TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS anomalies (
		id TEXT PRIMARY KEY,
		mmsi TEXT NOT NULL,
		vessel_name TEXT,
		kind TEXT NOT NULL,
		lat DOUBLE NOT NULL,
		lon DOUBLE NOT NULL,
		detected_at TIMESTAMP NOT NULL,
		details TEXT,
		confirmed BOOLEAN NOT NULL DEFAULT false,
		resolved BOOLEAN NOT NULL DEFAULT false,
		feedback_accurate BOOLEAN,
		feedback_notes TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_anomalies_detected_at ON anomalies(detected_at)`,
	`CREATE INDEX IF NOT EXISTS idx_anomalies_mmsi ON anomalies(mmsi)`,
	`CREATE INDEX IF NOT EXISTS idx_anomalies_kind ON anomalies(kind)`,
}

// InitSchema creates the tables and indexes if they do not exist.
func (db *DB) InitSchema(ctx context.Context) error {
	for _, q := range schemaQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	if db.cfg.Path != MemoryPath {
		if err := db.Checkpoint(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint after schema initialization")
		}
	}
	return nil
}
