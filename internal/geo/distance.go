// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package geo

import (
	"errors"
	"math"
)

// EarthRadiusNM is the mean Earth radius in nautical miles.
const EarthRadiusNM = 3440.065

// ErrEmptyPath is returned when a distance is requested against no points.
var ErrEmptyPath = errors.New("geo: empty path")

// Point is a position in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// angularDistance returns the central angle between a and b in radians.
func angularDistance(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	// Haversine formula
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// bearing returns the initial great-circle bearing from a to b in radians.
func bearing(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Atan2(y, x)
}

// HaversineNM returns the great-circle distance between a and b in nautical miles.
func HaversineNM(a, b Point) float64 {
	return EarthRadiusNM * angularDistance(a, b)
}

// PointToSegmentNM returns the shortest great-circle distance in nautical
// miles from p to the arc between start and end.
//
// When the perpendicular foot falls before start or past end, the distance
// to the nearer endpoint is used instead of the cross-track distance.
func PointToSegmentNM(p, start, end Point) float64 {
	d13 := angularDistance(start, p)
	d12 := angularDistance(start, end)
	if d12 == 0 || d13 == 0 {
		return EarthRadiusNM * d13
	}

	delta := bearing(start, p) - bearing(start, end)

	// Behind the start of the segment.
	if math.Cos(delta) < 0 {
		return EarthRadiusNM * d13
	}

	dxt := math.Asin(math.Sin(d13) * math.Sin(delta))
	cosAlong := math.Cos(d13) / math.Cos(dxt)
	// Clamp rounding drift before acos.
	cosAlong = math.Max(-1, math.Min(1, cosAlong))
	dat := math.Acos(cosAlong)

	if dat > d12 {
		return HaversineNM(p, end)
	}
	return EarthRadiusNM * math.Abs(dxt)
}

// PointToPathDistanceNM returns the minimum distance in nautical miles from p
// to any segment of path. A single-point path yields the point distance.
func PointToPathDistanceNM(p Point, path []Point) (float64, error) {
	switch len(path) {
	case 0:
		return 0, ErrEmptyPath
	case 1:
		return HaversineNM(p, path[0]), nil
	}

	best := math.Inf(1)
	for i := 1; i < len(path); i++ {
		if d := PointToSegmentNM(p, path[i-1], path[i]); d < best {
			best = d
		}
	}
	return best, nil
}
