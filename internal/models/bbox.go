// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package models

import "strconv"

// BoundingBox is a lat/lon rectangle used to scope provider queries.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

// String renders the box as "minLat,minLon,maxLat,maxLon", the order both
// feed providers accept.
func (b BoundingBox) String() string {
	buf := make([]byte, 0, 64)
	buf = strconv.AppendFloat(buf, b.MinLat, 'f', -1, 64)
	buf = append(buf, ',')
	buf = strconv.AppendFloat(buf, b.MinLon, 'f', -1, 64)
	buf = append(buf, ',')
	buf = strconv.AppendFloat(buf, b.MaxLat, 'f', -1, 64)
	buf = append(buf, ',')
	buf = strconv.AppendFloat(buf, b.MaxLon, 'f', -1, 64)
	return string(buf)
}

// Contains reports whether the point lies inside or on the edge of the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}
