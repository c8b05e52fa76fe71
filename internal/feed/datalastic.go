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

// DefaultDatalasticURL is the production Datalastic endpoint.
const DefaultDatalasticURL = "https://api.datalastic.com"

// DatalasticVessel is one record of a vessel_pro area response.
type DatalasticVessel struct {
	MMSI               flexString `json:"mmsi"`
	ShipName           string     `json:"shipname"`
	Lat                flexFloat  `json:"lat"`
	Lon                flexFloat  `json:"lon"`
	Course             flexFloat  `json:"course"`
	Speed              flexFloat  `json:"speed"`
	Destination        string     `json:"destination"`
	ETA                string     `json:"eta"`
	IMO                flexString `json:"imo"`
	Callsign           string     `json:"callsign"`
	ShipType           string     `json:"ship_type"`
	Draft              flexFloat  `json:"draft"`
	TypeName           string     `json:"type_name"`
	TimestampUTC       string     `json:"timestamp_utc"`
	NavigationalStatus string     `json:"navigational_status"`
}

type datalasticEnvelope struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Data    []DatalasticVessel `json:"data"`
}

func datalasticRequestURL(base, apiKey string, bbox models.BoundingBox) string {
	q := url.Values{}
	q.Set("api-key", apiKey)
	q.Set("param", "area")
	q.Set("value", bbox.String())
	return strings.TrimRight(base, "/") + "/api/v0/vessel_pro?" + q.Encode()
}

// decodeDatalastic parses the envelope and rejects any status other than "ok".
func decodeDatalastic(body []byte) ([]DatalasticVessel, error) {
	var env datalasticEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: decode datalastic response: %v", ErrProvider, err)
	}
	if env.Status != "ok" {
		msg := env.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("%w: datalastic status %q: %s", ErrProvider, env.Status, msg)
	}
	return env.Data, nil
}

// MapDatalastic normalizes Datalastic records. Records are mapped one to one;
// callers drop incomplete reports with FilterValid.
func MapDatalastic(records []DatalasticVessel) []models.VesselReport {
	out := make([]models.VesselReport, 0, len(records))
	for i := range records {
		r := &records[i]
		out = append(out, models.VesselReport{
			MMSI:         string(r.MMSI),
			Name:         strings.TrimSpace(r.ShipName),
			Lat:          r.Lat.ptr(),
			Lon:          r.Lon.ptr(),
			Course:       r.Course.ptr(),
			Speed:        r.Speed.ptr(),
			Destination:  strings.TrimSpace(r.Destination),
			ETA:          r.ETA,
			IMO:          string(r.IMO),
			Callsign:     strings.TrimSpace(r.Callsign),
			ShipType:     r.ShipType,
			VesselType:   r.TypeName,
			Draft:        r.Draft.ptr(),
			NavStatus:    r.NavigationalStatus,
			TimestampUTC: r.TimestampUTC,
		})
	}
	return out
}
