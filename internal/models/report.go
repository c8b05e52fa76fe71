// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package models

import (
	"fmt"
	"strings"
)

// VesselReport is a single position report normalized from a feed provider.
//
// Numeric fields the provider did not send stay nil. They are never coerced
// to zero, so a stationary vessel (speed 0) is distinguishable from a report
// that carried no speed at all.
type VesselReport struct {
	MMSI         string   `json:"mmsi"`
	Name         string   `json:"name,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lon          *float64 `json:"lon,omitempty"`
	Course       *float64 `json:"course,omitempty"`
	Speed        *float64 `json:"speed,omitempty"`
	Destination  string   `json:"destination,omitempty"`
	ETA          string   `json:"eta,omitempty"`
	IMO          string   `json:"imo,omitempty"`
	Callsign     string   `json:"callsign,omitempty"`
	ShipType     string   `json:"shipType,omitempty"`
	VesselType   string   `json:"vesselType,omitempty"`
	Draft        *float64 `json:"draft,omitempty"`
	NavStatus    string   `json:"navStatus,omitempty"`
	TimestampUTC string   `json:"timestampUtc,omitempty"`
}

// Valid reports whether the report carries the fields required to track a vessel:
// an identifier and both coordinates.
func (r *VesselReport) Valid() bool {
	return r.Validate() == nil
}

// Validate returns an ErrValidation describing the first missing required field.
func (r *VesselReport) Validate() error {
	if strings.TrimSpace(r.MMSI) == "" {
		return fmt.Errorf("%w: report has no mmsi", ErrValidation)
	}
	if r.Lat == nil || r.Lon == nil {
		return fmt.Errorf("%w: report %s has no position", ErrValidation, r.MMSI)
	}
	if *r.Lat < -90 || *r.Lat > 90 || *r.Lon < -180 || *r.Lon > 180 {
		return fmt.Errorf("%w: report %s position out of range (%f, %f)", ErrValidation, r.MMSI, *r.Lat, *r.Lon)
	}
	return nil
}

// Float returns a pointer to v. Used by provider mappers and tests to fill
// optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
