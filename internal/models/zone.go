// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Zone is a named polygonal monitoring area.
//
// Polygon is an ordered ring of [lon, lat] vertices (GeoJSON order). The ring
// may be stored open or closed; Ring always returns it closed.
type Zone struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Polygon   [][2]float64 `json:"polygon"`
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewZone validates the polygon and returns a zone with a fresh identifier.
func NewZone(name string, polygon [][2]float64, active bool, now time.Time) (*Zone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: zone name is required", ErrValidation)
	}
	if err := ValidatePolygon(polygon); err != nil {
		return nil, err
	}

	ring := make([][2]float64, len(polygon))
	copy(ring, polygon)

	return &Zone{
		ID:        uuid.New().String(),
		Name:      name,
		Polygon:   ring,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidatePolygon checks that a ring has at least three distinct vertices
// and that every vertex is a valid [lon, lat] coordinate.
func ValidatePolygon(ring [][2]float64) error {
	distinct := make(map[[2]float64]struct{}, len(ring))
	for i, p := range ring {
		lon, lat := p[0], p[1]
		if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
			return fmt.Errorf("%w: vertex %d out of range [%f, %f]", ErrValidation, i, lon, lat)
		}
		distinct[p] = struct{}{}
	}
	if len(distinct) < 3 {
		return fmt.Errorf("%w: polygon needs at least 3 distinct vertices, got %d", ErrValidation, len(distinct))
	}
	return nil
}

// Ring returns the polygon closed (first vertex repeated at the end).
func (z *Zone) Ring() [][2]float64 {
	n := len(z.Polygon)
	if n == 0 {
		return nil
	}
	ring := make([][2]float64, n, n+1)
	copy(ring, z.Polygon)
	if ring[0] != ring[n-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

// Centroid returns the vertex average of the ring as (lat, lon). It is
// adequate for the small convex areas zones usually describe.
func (z *Zone) Centroid() (lat, lon float64) {
	ring := z.Polygon
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}
	if len(ring) == 0 {
		return 0, 0
	}
	for _, p := range ring {
		lon += p[0]
		lat += p[1]
	}
	n := float64(len(ring))
	return lat / n, lon / n
}
