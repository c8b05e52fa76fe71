// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package detection

import (
	"context"
	"time"

	"github.com/tomtom215/tidewatch/internal/geo"
	"github.com/tomtom215/tidewatch/internal/models"
)

// ZoneIncursionDetector flags a vessel inside an active zone.
type ZoneIncursionDetector struct{}

// Kind returns KindZoneIncursion.
func (ZoneIncursionDetector) Kind() models.AnomalyKind {
	return models.KindZoneIncursion
}

// Check walks zones in order and reports only the first that contains the
// vessel. Inactive zones are skipped.
func (ZoneIncursionDetector) Check(_ context.Context, v *models.Vessel, zones []models.Zone, now time.Time) (*models.Anomaly, error) {
	for i := range zones {
		z := &zones[i]
		if !z.Active {
			continue
		}
		if !geo.Contains(z.Ring(), v.Lat, v.Lon) {
			continue
		}
		return models.NewAnomaly(v.MMSI, v.Name, models.KindZoneIncursion,
			models.Location{Lat: v.Lat, Lon: v.Lon},
			models.ZoneIncursionDetails{ZoneID: z.ID, ZoneName: z.Name}, now)
	}
	return nil, nil
}
