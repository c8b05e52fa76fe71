// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package alert

import (
	"fmt"
	"time"

	"github.com/tomtom215/tidewatch/internal/models"
)

// RenderMessage builds the SMS-sized text for an anomaly. Kinds whose
// details cannot be decoded fall back to the generic message.
func RenderMessage(a *models.Anomaly) string {
	name := a.DisplayName()
	at := fmt.Sprintf("%.4f, %.4f", a.Location.Lat, a.Location.Lon)

	switch a.Kind {
	case models.KindSignalLoss:
		var d models.SignalLossDetails
		if a.DecodeDetails(&d) == nil {
			return fmt.Sprintf("ALERT: Vessel %s has gone dark (AIS shutoff) at %s. Last seen at %s.",
				name, at, d.LastSeen.UTC().Format(time.RFC3339))
		}
	case models.KindTrackDeviation:
		var d models.TrackDeviationDetails
		if a.DecodeDetails(&d) == nil {
			return fmt.Sprintf("ALERT: Vessel %s has deviated from its route by %.2f nautical miles at %s.",
				name, d.DeviationDistance, at)
		}
	case models.KindZoneIncursion:
		var d models.ZoneIncursionDetails
		if a.DecodeDetails(&d) == nil {
			return fmt.Sprintf("ALERT: Vessel %s has entered zone %q at %s.", name, d.ZoneName, at)
		}
	}
	return fmt.Sprintf("ALERT: Vessel %s has triggered an anomaly of type %s at %s.", name, a.Kind, at)
}
