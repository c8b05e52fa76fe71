// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

// Package store defines the collection interfaces of the pipeline (zones,
// vessels, anomalies) together with in-memory implementations.
//
// Persistent implementations live in internal/database (DuckDB) and
// internal/kvstore (Badger). All implementations return ErrNotFound,
// possibly wrapped, when an identifier does not exist.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/tidewatch/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ZoneRegistry stores monitoring zones.
type ZoneRegistry interface {
	// ListActive returns every zone whose Active flag is set.
	ListActive(ctx context.Context) ([]models.Zone, error)

	Create(ctx context.Context, zone *models.Zone) error
	Get(ctx context.Context, id string) (*models.Zone, error)
	List(ctx context.Context) ([]models.Zone, error)
	Update(ctx context.Context, zone *models.Zone) error
	Delete(ctx context.Context, id string) error
}

// VesselStore owns vessel state and position history.
//
// Upserts for the same MMSI are serialized. Upserts for different MMSIs may
// proceed concurrently.
type VesselStore interface {
	// Upsert creates the vessel on its first report or merges the report
	// into the existing record, returning a copy of the stored state.
	Upsert(ctx context.Context, report *models.VesselReport, at time.Time) (*models.Vessel, error)

	Get(ctx context.Context, mmsi string) (*models.Vessel, error)

	// List returns vessels ordered by LastSeen, most recent first.
	List(ctx context.Context, page, pageSize int) (models.Page[models.Vessel], error)

	History(ctx context.Context, mmsi string) ([]models.PositionPoint, error)
	Delete(ctx context.Context, mmsi string) error

	// ListSeenBetween returns vessels whose LastSeen is strictly after
	// after and strictly before before.
	ListSeenBetween(ctx context.Context, after, before time.Time) ([]models.Vessel, error)
}

// AnomalyFilter selects anomalies by exact match. Nil fields do not filter.
type AnomalyFilter struct {
	Kind      *models.AnomalyKind
	MMSI      *string
	Confirmed *bool
	Resolved  *bool
	From      *time.Time
	To        *time.Time
}

// Matches reports whether a satisfies every set field of f.
func (f AnomalyFilter) Matches(a *models.Anomaly) bool {
	if f.Kind != nil && a.Kind != *f.Kind {
		return false
	}
	if f.MMSI != nil && a.MMSI != *f.MMSI {
		return false
	}
	if f.Confirmed != nil && a.Confirmed != *f.Confirmed {
		return false
	}
	if f.Resolved != nil && a.Resolved != *f.Resolved {
		return false
	}
	if f.From != nil && a.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && a.Timestamp.After(*f.To) {
		return false
	}
	return true
}

// AnomalyStore persists detection findings.
//
// No method changes the Kind of a stored anomaly.
type AnomalyStore interface {
	Insert(ctx context.Context, anomaly *models.Anomaly) error
	Get(ctx context.Context, id string) (*models.Anomaly, error)

	// Query returns matching anomalies ordered by Timestamp, newest first.
	Query(ctx context.Context, filter AnomalyFilter, page, pageSize int) (models.Page[models.Anomaly], error)

	SetConfirmed(ctx context.Context, id string, confirmed bool) error
	SetResolved(ctx context.Context, id string, resolved bool) error
	SetFeedback(ctx context.Context, id string, feedback models.Feedback) error
	Delete(ctx context.Context, id string) error
}

var (
	_ ZoneRegistry = (*MemoryZones)(nil)
	_ VesselStore  = (*MemoryVessels)(nil)
	_ AnomalyStore = (*MemoryAnomalies)(nil)
)
