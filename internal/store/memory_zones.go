// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tomtom215/tidewatch/internal/models"
)

// MemoryZones is an in-memory ZoneRegistry.
type MemoryZones struct {
	mu    sync.RWMutex
	zones map[string]models.Zone
}

// NewMemoryZones creates an empty registry.
func NewMemoryZones() *MemoryZones {
	return &MemoryZones{zones: make(map[string]models.Zone)}
}

func cloneZone(z models.Zone) models.Zone {
	poly := make([][2]float64, len(z.Polygon))
	copy(poly, z.Polygon)
	z.Polygon = poly
	return z
}

func sortZones(zones []models.Zone) {
	sort.Slice(zones, func(i, j int) bool {
		if zones[i].CreatedAt.Equal(zones[j].CreatedAt) {
			return zones[i].ID < zones[j].ID
		}
		return zones[i].CreatedAt.Before(zones[j].CreatedAt)
	})
}

// ListActive returns active zones ordered by creation time.
func (m *MemoryZones) ListActive(_ context.Context) ([]models.Zone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zones := make([]models.Zone, 0, len(m.zones))
	for _, z := range m.zones {
		if z.Active {
			zones = append(zones, cloneZone(z))
		}
	}
	sortZones(zones)
	return zones, nil
}

// Create stores a new zone. The zone ID must be unused.
func (m *MemoryZones) Create(_ context.Context, zone *models.Zone) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.zones[zone.ID]; exists {
		return fmt.Errorf("%w: zone %s already exists", models.ErrValidation, zone.ID)
	}
	m.zones[zone.ID] = cloneZone(*zone)
	return nil
}

// Get returns the zone with the given ID.
func (m *MemoryZones) Get(_ context.Context, id string) (*models.Zone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	z, ok := m.zones[id]
	if !ok {
		return nil, fmt.Errorf("zone %s: %w", id, ErrNotFound)
	}
	c := cloneZone(z)
	return &c, nil
}

// List returns all zones ordered by creation time.
func (m *MemoryZones) List(_ context.Context) ([]models.Zone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zones := make([]models.Zone, 0, len(m.zones))
	for _, z := range m.zones {
		zones = append(zones, cloneZone(z))
	}
	sortZones(zones)
	return zones, nil
}

// Update replaces an existing zone.
func (m *MemoryZones) Update(_ context.Context, zone *models.Zone) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.zones[zone.ID]; !ok {
		return fmt.Errorf("zone %s: %w", zone.ID, ErrNotFound)
	}
	m.zones[zone.ID] = cloneZone(*zone)
	return nil
}

// Delete removes a zone.
func (m *MemoryZones) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.zones[id]; !ok {
		return fmt.Errorf("zone %s: %w", id, ErrNotFound)
	}
	delete(m.zones, id)
	return nil
}
