// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package detection

import (
	"context"
	"time"

	"github.com/tomtom215/tidewatch/internal/models"
)

// SignalLossDetector flags vessels that went silent after a recent start.
type SignalLossDetector struct{}

// Kind returns KindSignalLoss.
func (SignalLossDetector) Kind() models.AnomalyKind {
	return models.KindSignalLoss
}

// Window returns the LastSeen bounds (exclusive) a sweep must load.
func (SignalLossDetector) Window(now time.Time) (after, before time.Time) {
	return now.Add(-SignalLossTrackStart), now.Add(-SignalLossSilence)
}

// Check flags v when LastSeen < now-30m and FirstSeen > now-24h.
func (SignalLossDetector) Check(_ context.Context, v *models.Vessel, _ []models.Zone, now time.Time) (*models.Anomaly, error) {
	if !v.LastSeen.Before(now.Add(-SignalLossSilence)) {
		return nil, nil
	}
	if !v.FirstSeen.After(now.Add(-SignalLossTrackStart)) {
		return nil, nil
	}

	loc := models.Location{Lat: v.Lat, Lon: v.Lon}
	return models.NewAnomaly(v.MMSI, v.Name, models.KindSignalLoss, loc, models.SignalLossDetails{
		LastSeen:     v.LastSeen,
		LastPosition: loc,
	}, now)
}
