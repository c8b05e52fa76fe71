// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package detection

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/tidewatch/internal/geo"
	"github.com/tomtom215/tidewatch/internal/models"
)

// TrackDeviationDetector flags a vessel whose current position is far from
// the path of its own recent history.
type TrackDeviationDetector struct{}

// Kind returns KindTrackDeviation.
func (TrackDeviationDetector) Kind() models.AnomalyKind {
	return models.KindTrackDeviation
}

// Check compares the current position against history[:len-1]. The last
// history entry is the current report and is not part of the reference path.
func (TrackDeviationDetector) Check(_ context.Context, v *models.Vessel, _ []models.Zone, now time.Time) (*models.Anomaly, error) {
	if len(v.History) < MinTrackPoints {
		return nil, nil
	}

	reference := v.History[:len(v.History)-1]
	path := make([]geo.Point, len(reference))
	route := make([][2]float64, len(reference))
	for i, p := range reference {
		path[i] = geo.Point{Lat: p.Lat, Lon: p.Lon}
		route[i] = [2]float64{p.Lon, p.Lat}
	}

	dist, err := geo.PointToPathDistanceNM(geo.Point{Lat: v.Lat, Lon: v.Lon}, path)
	if err != nil {
		return nil, fmt.Errorf("vessel %s: %w", v.MMSI, err)
	}
	if dist <= DeviationThresholdNM {
		return nil, nil
	}

	return models.NewAnomaly(v.MMSI, v.Name, models.KindTrackDeviation,
		models.Location{Lat: v.Lat, Lon: v.Lon},
		models.TrackDeviationDetails{
			DeviationDistance: dist,
			ExpectedRoute:     route,
			CurrentPoint:      [2]float64{v.Lon, v.Lat},
		}, now)
}
