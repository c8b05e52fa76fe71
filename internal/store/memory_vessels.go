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
	"time"

	"github.com/tomtom215/tidewatch/internal/models"
)

// MemoryVessels is an in-memory VesselStore.
//
// The map mutex guards membership only. Merging a report into an existing
// vessel runs under that vessel's key lock.
type MemoryVessels struct {
	keys *KeyLock

	mu      sync.RWMutex
	vessels map[string]*models.Vessel
}

// NewMemoryVessels creates an empty vessel store.
func NewMemoryVessels() *MemoryVessels {
	return &MemoryVessels{
		keys:    NewKeyLock(),
		vessels: make(map[string]*models.Vessel),
	}
}

// Upsert implements VesselStore.
func (m *MemoryVessels) Upsert(_ context.Context, report *models.VesselReport, at time.Time) (*models.Vessel, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}

	unlock := m.keys.Lock(report.MMSI)
	defer unlock()

	m.mu.RLock()
	existing, ok := m.vessels[report.MMSI]
	m.mu.RUnlock()

	if !ok {
		v, err := models.NewVessel(report, at)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.vessels[v.MMSI] = v
		m.mu.Unlock()
		return v.Clone(), nil
	}

	// Readers take m.mu, so merge into a copy and swap it in.
	updated := existing.Clone()
	if err := updated.Apply(report, at); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.vessels[updated.MMSI] = updated
	m.mu.Unlock()
	return updated.Clone(), nil
}

// Get implements VesselStore.
func (m *MemoryVessels) Get(_ context.Context, mmsi string) (*models.Vessel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.vessels[mmsi]
	if !ok {
		return nil, fmt.Errorf("vessel %s: %w", mmsi, ErrNotFound)
	}
	return v.Clone(), nil
}

// List implements VesselStore.
func (m *MemoryVessels) List(_ context.Context, page, pageSize int) (models.Page[models.Vessel], error) {
	page, pageSize, offset := models.NormalizePage(page, pageSize)

	m.mu.RLock()
	all := make([]*models.Vessel, 0, len(m.vessels))
	for _, v := range m.vessels {
		all = append(all, v)
	}
	m.mu.RUnlock()

	SortVesselsByLastSeen(all)

	result := models.Page[models.Vessel]{
		Items:    []models.Vessel{},
		Total:    len(all),
		Page:     page,
		PageSize: pageSize,
	}
	for i := offset; i < len(all) && i < offset+pageSize; i++ {
		result.Items = append(result.Items, *all[i].Clone())
	}
	return result, nil
}

// SortVesselsByLastSeen orders vessels most recently seen first, breaking
// ties by MMSI.
func SortVesselsByLastSeen(vessels []*models.Vessel) {
	sort.Slice(vessels, func(i, j int) bool {
		if vessels[i].LastSeen.Equal(vessels[j].LastSeen) {
			return vessels[i].MMSI < vessels[j].MMSI
		}
		return vessels[i].LastSeen.After(vessels[j].LastSeen)
	})
}

// History implements VesselStore.
func (m *MemoryVessels) History(ctx context.Context, mmsi string) ([]models.PositionPoint, error) {
	v, err := m.Get(ctx, mmsi)
	if err != nil {
		return nil, err
	}
	return v.History, nil
}

// Delete implements VesselStore.
func (m *MemoryVessels) Delete(_ context.Context, mmsi string) error {
	unlock := m.keys.Lock(mmsi)
	defer unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.vessels[mmsi]; !ok {
		return fmt.Errorf("vessel %s: %w", mmsi, ErrNotFound)
	}
	delete(m.vessels, mmsi)
	return nil
}

// ListSeenBetween implements VesselStore.
func (m *MemoryVessels) ListSeenBetween(_ context.Context, after, before time.Time) ([]models.Vessel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Vessel
	for _, v := range m.vessels {
		if v.LastSeen.After(after) && v.LastSeen.Before(before) {
			out = append(out, *v.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MMSI < out[j].MMSI })
	return out, nil
}

// Count returns the number of stored vessels.
func (m *MemoryVessels) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vessels)
}
