// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tidewatch/internal/models"
	"github.com/tomtom215/tidewatch/internal/store"
)

const zoneSelectColumns = `id, name, polygon, active, created_at, updated_at`

// ZoneStore is the DuckDB implementation of store.ZoneRegistry.
type ZoneStore struct {
	db *sql.DB
}

// NewZoneStore returns a zone registry backed by db.
func NewZoneStore(db *DB) *ZoneStore {
	return &ZoneStore{db: db.conn}
}

var _ store.ZoneRegistry = (*ZoneStore)(nil)

func scanZoneRow(scanner interface {
	Scan(dest ...interface{}) error
}, z *models.Zone) error {
	var polygon string
	if err := scanner.Scan(&z.ID, &z.Name, &polygon, &z.Active, &z.CreatedAt, &z.UpdatedAt); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(polygon), &z.Polygon); err != nil {
		return fmt.Errorf("failed to decode polygon for zone %s: %w", z.ID, err)
	}
	return nil
}

func (s *ZoneStore) queryZones(ctx context.Context, query string, args ...interface{}) ([]models.Zone, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer closeWithLog(rows, "zone rows")

	zones := make([]models.Zone, 0)
	for rows.Next() {
		var z models.Zone
		if err := scanZoneRow(rows, &z); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// ListActive implements store.ZoneRegistry.
func (s *ZoneStore) ListActive(ctx context.Context) ([]models.Zone, error) {
	return s.queryZones(ctx, `SELECT `+zoneSelectColumns+` FROM zones
		WHERE active = true ORDER BY created_at, id`)
}

// List implements store.ZoneRegistry.
func (s *ZoneStore) List(ctx context.Context) ([]models.Zone, error) {
	return s.queryZones(ctx, `SELECT `+zoneSelectColumns+` FROM zones ORDER BY created_at, id`)
}

// Get implements store.ZoneRegistry.
func (s *ZoneStore) Get(ctx context.Context, id string) (*models.Zone, error) {
	z := &models.Zone{}
	err := scanZoneRow(s.db.QueryRowContext(ctx,
		`SELECT `+zoneSelectColumns+` FROM zones WHERE id = ?`, id), z)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("zone %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}
	return z, nil
}

// Create implements store.ZoneRegistry.
func (s *ZoneStore) Create(ctx context.Context, zone *models.Zone) error {
	polygon, err := json.Marshal(zone.Polygon)
	if err != nil {
		return fmt.Errorf("failed to encode polygon: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO zones
		(id, name, polygon, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		zone.ID, zone.Name, string(polygon), zone.Active,
		zone.CreatedAt.UTC(), zone.UpdatedAt.UTC())
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: zone %s already exists", models.ErrValidation, zone.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert zone: %w", err)
	}
	return nil
}

// Update implements store.ZoneRegistry.
func (s *ZoneStore) Update(ctx context.Context, zone *models.Zone) error {
	polygon, err := json.Marshal(zone.Polygon)
	if err != nil {
		return fmt.Errorf("failed to encode polygon: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `UPDATE zones
		SET name = ?, polygon = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		zone.Name, string(polygon), zone.Active, zone.UpdatedAt.UTC(), zone.ID)
	if err != nil {
		return fmt.Errorf("failed to update zone: %w", err)
	}
	return requireAffected(result, "zone", zone.ID)
}

// Delete implements store.ZoneRegistry.
func (s *ZoneStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM zones WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}
	return requireAffected(result, "zone", id)
}

// requireAffected maps a zero-row write to store.ErrNotFound.
func requireAffected(result sql.Result, kind, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	return nil
}
