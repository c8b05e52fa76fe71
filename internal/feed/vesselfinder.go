// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package feed

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tidewatch/internal/models"
)

// DefaultVesselFinderURL is the production VesselFinder endpoint.
const DefaultVesselFinderURL = "https://api.vesselfinder.com"

// VesselFinderAIS is the AIS block of a VesselFinder record.
type VesselFinderAIS struct {
	MMSI        flexString `json:"MMSI"`
	Name        string     `json:"NAME"`
	Latitude    flexFloat  `json:"LATITUDE"`
	Longitude   flexFloat  `json:"LONGITUDE"`
	Course      flexFloat  `json:"COURSE"`
	Speed       flexFloat  `json:"SPEED"`
	Destination string     `json:"DESTINATION"`
	ETA         string     `json:"ETA"`
	IMO         flexString `json:"IMO"`
	Callsign    string     `json:"CALLSIGN"`
	Type        flexString `json:"TYPE"`
	Draught     flexFloat  `json:"DRAUGHT"`
	NavStat     flexString `json:"NAVSTAT"`
	Timestamp   string     `json:"TIMESTAMP"`
}

// VesselFinderRecord wraps one vessel in the response array.
type VesselFinderRecord struct {
	AIS VesselFinderAIS `json:"AIS"`
}

func vesselFinderRequestURL(base, apiKey string, bbox models.BoundingBox) string {
	q := url.Values{}
	q.Set("userkey", apiKey)
	q.Set("bbox", bbox.String())
	q.Set("format", "json")
	return strings.TrimRight(base, "/") + "/vessels?" + q.Encode()
}

// decodeVesselFinder expects a top level array. VesselFinder reports errors
// as an object ({"error": "..."}), which therefore fails here.
func decodeVesselFinder(body []byte) ([]VesselFinderRecord, error) {
	var records []VesselFinderRecord
	if err := json.Unmarshal(body, &records); err != nil {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%w: vesselfinder: %s", ErrProvider, apiErr.Error)
		}
		return nil, fmt.Errorf("%w: decode vesselfinder response: %v", ErrProvider, err)
	}
	return records, nil
}

// MapVesselFinder normalizes VesselFinder records.
func MapVesselFinder(records []VesselFinderRecord) []models.VesselReport {
	out := make([]models.VesselReport, 0, len(records))
	for i := range records {
		a := &records[i].AIS
		imo := string(a.IMO)
		if imo == "0" {
			imo = ""
		}
		out = append(out, models.VesselReport{
			MMSI:         string(a.MMSI),
			Name:         strings.TrimSpace(a.Name),
			Lat:          a.Latitude.ptr(),
			Lon:          a.Longitude.ptr(),
			Course:       a.Course.ptr(),
			Speed:        a.Speed.ptr(),
			Destination:  strings.TrimSpace(a.Destination),
			ETA:          a.ETA,
			IMO:          imo,
			Callsign:     strings.TrimSpace(a.Callsign),
			ShipType:     string(a.Type),
			Draft:        a.Draught.ptr(),
			NavStatus:    string(a.NavStat),
			TimestampUTC: a.Timestamp,
		})
	}
	return out
}
