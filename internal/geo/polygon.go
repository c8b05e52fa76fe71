// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package geo

// Contains reports whether (lat, lon) lies inside ring using the even-odd
// ray casting rule. ring holds [lon, lat] vertices and may be open or closed.
// Points exactly on an edge may fall either way.
func Contains(ring [][2]float64, lat, lon float64) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		if (yi > lat) != (yj > lat) {
			crossLon := (xj-xi)*(lat-yi)/(yj-yi) + xi
			if lon < crossLon {
				inside = !inside
			}
		}
	}
	return inside
}
