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

	"github.com/tomtom215/tidewatch/internal/database/query"
	"github.com/tomtom215/tidewatch/internal/models"
	"github.com/tomtom215/tidewatch/internal/store"
)

const anomalySelectColumns = `id, mmsi, vessel_name, kind, lat, lon, detected_at,
	details, confirmed, resolved, feedback_accurate, feedback_notes`

// AnomalyStore is the DuckDB implementation of store.AnomalyStore.
type AnomalyStore struct {
	db *sql.DB
}

// NewAnomalyStore returns an anomaly store backed by db.
func NewAnomalyStore(db *DB) *AnomalyStore {
	return &AnomalyStore{db: db.conn}
}

var _ store.AnomalyStore = (*AnomalyStore)(nil)

// scanAnomalyRow scans a single anomaly row with nullable field handling.
func scanAnomalyRow(scanner interface {
	Scan(dest ...interface{}) error
}, a *models.Anomaly) error {
	var (
		vesselName, details, notes sql.NullString
		accurate                   sql.NullBool
		kind                       string
	)

	if err := scanner.Scan(
		&a.ID,
		&a.MMSI,
		&vesselName,
		&kind,
		&a.Location.Lat,
		&a.Location.Lon,
		&a.Timestamp,
		&details,
		&a.Confirmed,
		&a.Resolved,
		&accurate,
		&notes,
	); err != nil {
		return err
	}

	a.Kind = models.AnomalyKind(kind)
	if vesselName.Valid {
		a.VesselName = vesselName.String
	}
	if details.Valid && details.String != "" {
		a.Details = []byte(details.String)
	}
	if accurate.Valid {
		a.Feedback = &models.Feedback{Accurate: accurate.Bool, Notes: notes.String}
	}
	return nil
}

// Insert implements store.AnomalyStore.
func (s *AnomalyStore) Insert(ctx context.Context, a *models.Anomaly) error {
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: unknown anomaly kind %q", models.ErrValidation, a.Kind)
	}

	// Plain string, not json.RawMessage; the driver rejects Marshaler values.
	var details sql.NullString
	if len(a.Details) > 0 {
		details = sql.NullString{String: string(a.Details), Valid: true}
	}
	var accurate sql.NullBool
	var notes sql.NullString
	if a.Feedback != nil {
		accurate = sql.NullBool{Bool: a.Feedback.Accurate, Valid: true}
		notes = sql.NullString{String: a.Feedback.Notes, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO anomalies
		(id, mmsi, vessel_name, kind, lat, lon, detected_at, details,
		 confirmed, resolved, feedback_accurate, feedback_notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.MMSI, a.VesselName, string(a.Kind), a.Location.Lat, a.Location.Lon,
		a.Timestamp.UTC(), details, a.Confirmed, a.Resolved, accurate, notes)
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: anomaly %s already exists", models.ErrValidation, a.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert anomaly: %w", err)
	}
	return nil
}

// Get implements store.AnomalyStore.
func (s *AnomalyStore) Get(ctx context.Context, id string) (*models.Anomaly, error) {
	a := &models.Anomaly{}
	err := scanAnomalyRow(s.db.QueryRowContext(ctx,
		`SELECT `+anomalySelectColumns+` FROM anomalies WHERE id = ?`, id), a)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("anomaly %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get anomaly: %w", err)
	}
	return a, nil
}

// buildAnomalyWhere translates a filter into a parameterized WHERE clause.
func buildAnomalyWhere(f store.AnomalyFilter) (string, []interface{}) {
	wb := query.NewWhereBuilder()
	if f.Kind != nil {
		wb.AddEquals("kind", string(*f.Kind))
	}
	if f.MMSI != nil {
		wb.AddEquals("mmsi", *f.MMSI)
	}
	if f.Confirmed != nil {
		wb.AddEquals("confirmed", *f.Confirmed)
	}
	if f.Resolved != nil {
		wb.AddEquals("resolved", *f.Resolved)
	}
	wb.AddTimeRange("detected_at", f.From, f.To)
	return wb.BuildWithPrefix()
}

// Query implements store.AnomalyStore.
func (s *AnomalyStore) Query(ctx context.Context, filter store.AnomalyFilter, page, pageSize int) (models.Page[models.Anomaly], error) {
	page, pageSize, offset := models.NormalizePage(page, pageSize)
	where, args := buildAnomalyWhere(filter)

	result := models.Page[models.Anomaly]{
		Items:    []models.Anomaly{},
		Page:     page,
		PageSize: pageSize,
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM anomalies `+where, args...).Scan(&result.Total); err != nil {
		return result, fmt.Errorf("failed to count anomalies: %w", err)
	}

	pageArgs := append(append([]interface{}{}, args...), pageSize, offset)
	rows, err := s.db.QueryContext(ctx, `SELECT `+anomalySelectColumns+` FROM anomalies `+where+`
		ORDER BY detected_at DESC, id LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return result, fmt.Errorf("failed to query anomalies: %w", err)
	}
	defer closeWithLog(rows, "anomaly rows")

	for rows.Next() {
		var a models.Anomaly
		if err := scanAnomalyRow(rows, &a); err != nil {
			return result, fmt.Errorf("failed to scan anomaly: %w", err)
		}
		result.Items = append(result.Items, a)
	}
	return result, rows.Err()
}

func (s *AnomalyStore) exec(ctx context.Context, id, stmt string, args ...interface{}) error {
	result, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to update anomaly: %w", err)
	}
	return requireAffected(result, "anomaly", id)
}

// SetConfirmed implements store.AnomalyStore.
func (s *AnomalyStore) SetConfirmed(ctx context.Context, id string, confirmed bool) error {
	return s.exec(ctx, id, `UPDATE anomalies SET confirmed = ? WHERE id = ?`, confirmed, id)
}

// SetResolved implements store.AnomalyStore.
func (s *AnomalyStore) SetResolved(ctx context.Context, id string, resolved bool) error {
	return s.exec(ctx, id, `UPDATE anomalies SET resolved = ? WHERE id = ?`, resolved, id)
}

// SetFeedback implements store.AnomalyStore.
func (s *AnomalyStore) SetFeedback(ctx context.Context, id string, feedback models.Feedback) error {
	return s.exec(ctx, id, `UPDATE anomalies SET feedback_accurate = ?, feedback_notes = ? WHERE id = ?`,
		feedback.Accurate, feedback.Notes, id)
}

// Delete implements store.AnomalyStore.
func (s *AnomalyStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM anomalies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete anomaly: %w", err)
	}
	return requireAffected(result, "anomaly", id)
}
