// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package geo

import (
	"errors"
	"math"

	"github.com/tomtom215/tidewatch/internal/models"
)

// DefaultPadding is the margin in degrees added on every side of a zone's
// extent when building a provider query box.
const DefaultPadding = 0.1

// ErrEmptyRing is returned when a polygon has no vertices.
var ErrEmptyRing = errors.New("geo: empty ring")

// BoundingBox returns the vertex extrema of ring expanded by padding degrees
// on all four sides. The result is clamped to valid coordinate ranges.
func BoundingBox(ring [][2]float64, padding float64) (models.BoundingBox, error) {
	if len(ring) == 0 {
		return models.BoundingBox{}, ErrEmptyRing
	}

	box := models.BoundingBox{
		MinLat: math.Inf(1),
		MinLon: math.Inf(1),
		MaxLat: math.Inf(-1),
		MaxLon: math.Inf(-1),
	}
	for _, p := range ring {
		lon, lat := p[0], p[1]
		box.MinLat = math.Min(box.MinLat, lat)
		box.MaxLat = math.Max(box.MaxLat, lat)
		box.MinLon = math.Min(box.MinLon, lon)
		box.MaxLon = math.Max(box.MaxLon, lon)
	}

	box.MinLat = math.Max(box.MinLat-padding, -90)
	box.MaxLat = math.Min(box.MaxLat+padding, 90)
	box.MinLon = math.Max(box.MinLon-padding, -180)
	box.MaxLon = math.Min(box.MaxLon+padding, 180)
	return box, nil
}
