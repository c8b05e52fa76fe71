// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// AnomalyKind identifies which check produced an anomaly.
type AnomalyKind string

const (
	// KindSignalLoss flags a recently active vessel that stopped reporting.
	KindSignalLoss AnomalyKind = "SIGNAL_LOSS"

	// KindTrackDeviation flags a vessel far from the path of its own history.
	KindTrackDeviation AnomalyKind = "TRACK_DEVIATION"

	// KindZoneIncursion flags a vessel inside an active zone polygon.
	KindZoneIncursion AnomalyKind = "ZONE_INCURSION"

	// KindSpeedAnomaly is reserved. No detector produces it.
	KindSpeedAnomaly AnomalyKind = "SPEED_ANOMALY"
)

// Valid reports whether k is one of the known kinds.
func (k AnomalyKind) Valid() bool {
	switch k {
	case KindSignalLoss, KindTrackDeviation, KindZoneIncursion, KindSpeedAnomaly:
		return true
	default:
		return false
	}
}

// ParseAnomalyKind parses a kind name case-insensitively.
func ParseAnomalyKind(s string) (AnomalyKind, error) {
	k := AnomalyKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown anomaly kind %q", ErrValidation, s)
	}
	return k, nil
}

// Location is a position at the moment an anomaly was detected.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Feedback is an operator's assessment of an anomaly.
type Feedback struct {
	Accurate bool   `json:"accurate"`
	Notes    string `json:"notes,omitempty"`
}

// Anomaly is a persisted detection finding.
//
// Kind is fixed at creation; stores expose no operation that changes it.
// Confirmed and Resolved are independent flags.
type Anomaly struct {
	ID         string          `json:"id"`
	MMSI       string          `json:"mmsi"`
	VesselName string          `json:"vesselName,omitempty"`
	Kind       AnomalyKind     `json:"kind"`
	Location   Location        `json:"location"`
	Timestamp  time.Time       `json:"timestamp"`
	Details    json.RawMessage `json:"details,omitempty"`
	Confirmed  bool            `json:"confirmed"`
	Resolved   bool            `json:"resolved"`
	Feedback   *Feedback       `json:"feedback,omitempty"`
}

// NewAnomaly builds an unconfirmed, unresolved anomaly with a fresh identifier.
// details is marshalled to JSON; pass nil for no payload.
func NewAnomaly(mmsi, vesselName string, kind AnomalyKind, loc Location, details interface{}, at time.Time) (*Anomaly, error) {
	if strings.TrimSpace(mmsi) == "" {
		return nil, fmt.Errorf("%w: anomaly requires an mmsi", ErrValidation)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown anomaly kind %q", ErrValidation, kind)
	}

	var raw json.RawMessage
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return nil, fmt.Errorf("marshal anomaly details: %w", err)
		}
		raw = data
	}

	return &Anomaly{
		ID:         uuid.New().String(),
		MMSI:       mmsi,
		VesselName: vesselName,
		Kind:       kind,
		Location:   loc,
		Timestamp:  at,
		Details:    raw,
	}, nil
}

// DecodeDetails unmarshals the detail payload into v.
func (a *Anomaly) DecodeDetails(v interface{}) error {
	if len(a.Details) == 0 {
		return fmt.Errorf("anomaly %s has no details", a.ID)
	}
	return json.Unmarshal(a.Details, v)
}

// DisplayName returns the vessel name, falling back to the MMSI.
func (a *Anomaly) DisplayName() string {
	if a.VesselName != "" {
		return a.VesselName
	}
	return a.MMSI
}

// SignalLossDetails is the payload of a SIGNAL_LOSS anomaly.
type SignalLossDetails struct {
	LastSeen     time.Time `json:"lastSeen"`
	LastPosition Location  `json:"lastPosition"`
}

// TrackDeviationDetails is the payload of a TRACK_DEVIATION anomaly.
// Coordinates are [lon, lat].
type TrackDeviationDetails struct {
	DeviationDistance float64      `json:"deviationDistance"`
	ExpectedRoute     [][2]float64 `json:"expectedRoute"`
	CurrentPoint      [2]float64   `json:"currentPoint"`
}

// ZoneIncursionDetails is the payload of a ZONE_INCURSION anomaly.
type ZoneIncursionDetails struct {
	ZoneID   string `json:"zoneId"`
	ZoneName string `json:"zoneName"`
}
