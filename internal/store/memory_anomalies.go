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

// MemoryAnomalies is an in-memory AnomalyStore.
type MemoryAnomalies struct {
	mu        sync.RWMutex
	anomalies map[string]*models.Anomaly
}

// NewMemoryAnomalies creates an empty anomaly store.
func NewMemoryAnomalies() *MemoryAnomalies {
	return &MemoryAnomalies{anomalies: make(map[string]*models.Anomaly)}
}

func cloneAnomaly(a *models.Anomaly) *models.Anomaly {
	c := *a
	if a.Details != nil {
		c.Details = append([]byte(nil), a.Details...)
	}
	if a.Feedback != nil {
		fb := *a.Feedback
		c.Feedback = &fb
	}
	return &c
}

// Insert implements AnomalyStore.
func (m *MemoryAnomalies) Insert(_ context.Context, anomaly *models.Anomaly) error {
	if !anomaly.Kind.Valid() {
		return fmt.Errorf("%w: unknown anomaly kind %q", models.ErrValidation, anomaly.Kind)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.anomalies[anomaly.ID]; exists {
		return fmt.Errorf("%w: anomaly %s already exists", models.ErrValidation, anomaly.ID)
	}
	m.anomalies[anomaly.ID] = cloneAnomaly(anomaly)
	return nil
}

// Get implements AnomalyStore.
func (m *MemoryAnomalies) Get(_ context.Context, id string) (*models.Anomaly, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.anomalies[id]
	if !ok {
		return nil, fmt.Errorf("anomaly %s: %w", id, ErrNotFound)
	}
	return cloneAnomaly(a), nil
}

// Query implements AnomalyStore.
func (m *MemoryAnomalies) Query(_ context.Context, filter AnomalyFilter, page, pageSize int) (models.Page[models.Anomaly], error) {
	page, pageSize, offset := models.NormalizePage(page, pageSize)

	m.mu.RLock()
	matched := make([]*models.Anomaly, 0)
	for _, a := range m.anomalies {
		if filter.Matches(a) {
			matched = append(matched, a)
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	result := models.Page[models.Anomaly]{
		Items:    []models.Anomaly{},
		Total:    len(matched),
		Page:     page,
		PageSize: pageSize,
	}
	for i := offset; i < len(matched) && i < offset+pageSize; i++ {
		result.Items = append(result.Items, *cloneAnomaly(matched[i]))
	}
	return result, nil
}

func (m *MemoryAnomalies) update(id string, fn func(a *models.Anomaly)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.anomalies[id]
	if !ok {
		return fmt.Errorf("anomaly %s: %w", id, ErrNotFound)
	}
	fn(a)
	return nil
}

// SetConfirmed implements AnomalyStore.
func (m *MemoryAnomalies) SetConfirmed(_ context.Context, id string, confirmed bool) error {
	return m.update(id, func(a *models.Anomaly) { a.Confirmed = confirmed })
}

// SetResolved implements AnomalyStore.
func (m *MemoryAnomalies) SetResolved(_ context.Context, id string, resolved bool) error {
	return m.update(id, func(a *models.Anomaly) { a.Resolved = resolved })
}

// SetFeedback implements AnomalyStore.
func (m *MemoryAnomalies) SetFeedback(_ context.Context, id string, feedback models.Feedback) error {
	return m.update(id, func(a *models.Anomaly) { a.Feedback = &feedback })
}

// Delete implements AnomalyStore.
func (m *MemoryAnomalies) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.anomalies[id]; !ok {
		return fmt.Errorf("anomaly %s: %w", id, ErrNotFound)
	}
	delete(m.anomalies, id)
	return nil
}
