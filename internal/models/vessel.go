// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package models

import (
	"time"
)

// MaxHistory is the maximum number of position points kept per vessel.
// When a new point would exceed it, the oldest point is evicted.
const MaxHistory = 100

// PositionPoint is one historical position of a vessel.
type PositionPoint struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Timestamp time.Time `json:"timestamp"`
}

// Vessel is the tracked state of a single vessel, keyed by MMSI.
//
// History is ordered oldest to newest and never holds more than MaxHistory
// entries. The last history entry is the current position.
type Vessel struct {
	MMSI        string          `json:"mmsi"`
	Name        string          `json:"name,omitempty"`
	Lat         float64         `json:"lat"`
	Lon         float64         `json:"lon"`
	Course      *float64        `json:"course,omitempty"`
	Speed       *float64        `json:"speed,omitempty"`
	Destination string          `json:"destination,omitempty"`
	ETA         string          `json:"eta,omitempty"`
	IMO         string          `json:"imo,omitempty"`
	Callsign    string          `json:"callsign,omitempty"`
	ShipType    string          `json:"shipType,omitempty"`
	VesselType  string          `json:"vesselType,omitempty"`
	Draft       *float64        `json:"draft,omitempty"`
	NavStatus   string          `json:"navStatus,omitempty"`
	FirstSeen   time.Time       `json:"firstSeen"`
	LastSeen    time.Time       `json:"lastSeen"`
	History     []PositionPoint `json:"history"`
}

// NewVessel creates a vessel from its first report. The vessel starts with a
// single-entry history at the reported position.
func NewVessel(r *VesselReport, at time.Time) (*Vessel, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	v := &Vessel{
		MMSI:      r.MMSI,
		Name:      r.Name,
		FirstSeen: at,
	}
	v.applyFields(r, at)
	v.History = []PositionPoint{{Lat: v.Lat, Lon: v.Lon, Timestamp: at}}
	return v, nil
}

// Apply merges a subsequent report for the same vessel into v in place.
//
// Position, course, speed, destination and ETA are always overwritten.
// Extended fields (IMO, callsign, ship type, vessel type, draft, navigational
// status) and the name only change when the report carries them. A history
// point is appended and the oldest point evicted past MaxHistory.
func (v *Vessel) Apply(r *VesselReport, at time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Name != "" {
		v.Name = r.Name
	}
	v.applyFields(r, at)
	v.appendHistory(PositionPoint{Lat: v.Lat, Lon: v.Lon, Timestamp: at})
	return nil
}

func (v *Vessel) applyFields(r *VesselReport, at time.Time) {
	v.Lat = *r.Lat
	v.Lon = *r.Lon
	v.Course = r.Course
	v.Speed = r.Speed
	v.Destination = r.Destination
	v.ETA = r.ETA
	v.LastSeen = at

	if r.IMO != "" {
		v.IMO = r.IMO
	}
	if r.Callsign != "" {
		v.Callsign = r.Callsign
	}
	if r.ShipType != "" {
		v.ShipType = r.ShipType
	}
	if r.VesselType != "" {
		v.VesselType = r.VesselType
	}
	if r.Draft != nil {
		v.Draft = r.Draft
	}
	if r.NavStatus != "" {
		v.NavStatus = r.NavStatus
	}
}

func (v *Vessel) appendHistory(p PositionPoint) {
	v.History = append(v.History, p)
	if over := len(v.History) - MaxHistory; over > 0 {
		// Copy into a fresh slice so the evicted prefix is not retained.
		trimmed := make([]PositionPoint, MaxHistory)
		copy(trimmed, v.History[over:])
		v.History = trimmed
	}
}

// DisplayName returns the vessel name, falling back to the MMSI.
func (v *Vessel) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	return v.MMSI
}

// Clone returns a deep copy of v. Stores hand out clones so callers cannot
// mutate stored history.
func (v *Vessel) Clone() *Vessel {
	if v == nil {
		return nil
	}
	c := *v
	c.Course = cloneFloat(v.Course)
	c.Speed = cloneFloat(v.Speed)
	c.Draft = cloneFloat(v.Draft)
	c.History = make([]PositionPoint, len(v.History))
	copy(c.History, v.History)
	return &c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
