// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package feed

import "github.com/tomtom215/tidewatch/internal/models"

// FilterValid drops reports without an MMSI or a complete in-range position.
// The input slice is not modified.
func FilterValid(reports []models.VesselReport) []models.VesselReport {
	out := make([]models.VesselReport, 0, len(reports))
	for i := range reports {
		if reports[i].Valid() {
			out = append(out, reports[i])
		}
	}
	return out
}
