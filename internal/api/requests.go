// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tidewatch/internal/models"
	"github.com/tomtom215/tidewatch/internal/store"
	"github.com/tomtom215/tidewatch/internal/validation"
)

const maxBodyBytes = 1 << 20

// ZoneRequest creates or replaces a zone. Polygon vertices are [lon, lat].
type ZoneRequest struct {
	Name    string       `json:"name" validate:"required,max=128"`
	Polygon [][2]float64 `json:"polygon" validate:"min=3,max=1000"`
	Active  *bool        `json:"active"`
}

// LocationRequest is a lat/lon pair.
type LocationRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lon *float64 `json:"lon" validate:"required,longitude"`
}

// AnomalyCreateRequest records an anomaly by hand.
type AnomalyCreateRequest struct {
	MMSI       string          `json:"mmsi" validate:"required,mmsi"`
	VesselName string          `json:"vesselName" validate:"max=128"`
	Kind       string          `json:"kind" validate:"required,anomalykind"`
	Location   LocationRequest `json:"location"`
	Timestamp  *time.Time      `json:"timestamp"`
	Details    json.RawMessage `json:"details"`
}

// FeedbackRequest is an operator's assessment.
type FeedbackRequest struct {
	Accurate *bool  `json:"accurate" validate:"required"`
	Notes    string `json:"notes" validate:"max=2000"`
}

// AnomalyUpdateRequest changes the mutable flags of an anomaly. Kind is not accepted.
type AnomalyUpdateRequest struct {
	Confirmed *bool            `json:"confirmed"`
	Resolved  *bool            `json:"resolved"`
	Feedback  *FeedbackRequest `json:"feedback"`
}

// AlertRequest names where an alert goes.
type AlertRequest struct {
	Destination string `json:"destination" validate:"required,max=256"`
}

// decodeAndValidate reads a bounded JSON body into v and validates it.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: request body exceeds %d bytes", models.ErrValidation, maxBodyBytes)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", models.ErrValidation)
		default:
			return fmt.Errorf("%w: invalid JSON body: %v", models.ErrValidation, err)
		}
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr
	}
	return nil
}

// AnomalyQuery holds the parsed filters of GET /anomalies.
type AnomalyQuery struct {
	Filter   store.AnomalyFilter
	Page     int
	PageSize int
}

// parseAnomalyQuery reads kind, mmsi, confirmed, resolved, from, to, page and limit.
func parseAnomalyQuery(r *http.Request) (AnomalyQuery, error) {
	q := r.URL.Query()
	var out AnomalyQuery

	if s := strings.TrimSpace(q.Get("kind")); s != "" {
		k, err := models.ParseAnomalyKind(s)
		if err != nil {
			return out, err
		}
		out.Filter.Kind = &k
	}
	if s := strings.TrimSpace(q.Get("mmsi")); s != "" {
		out.Filter.MMSI = &s
	}

	var err error
	if out.Filter.Confirmed, err = parseBoolParam(q.Get("confirmed"), "confirmed"); err != nil {
		return out, err
	}
	if out.Filter.Resolved, err = parseBoolParam(q.Get("resolved"), "resolved"); err != nil {
		return out, err
	}
	if out.Filter.From, err = parseTimeParam(q.Get("from"), "from"); err != nil {
		return out, err
	}
	if out.Filter.To, err = parseTimeParam(q.Get("to"), "to"); err != nil {
		return out, err
	}
	if out.Filter.From != nil && out.Filter.To != nil && out.Filter.To.Before(*out.Filter.From) {
		return out, fmt.Errorf("%w: to is before from", models.ErrValidation)
	}

	if out.Page, out.PageSize, err = parsePaging(r); err != nil {
		return out, err
	}
	return out, nil
}

// parsePaging reads page and limit. Missing values use the defaults from
// models.NormalizePage; malformed values are rejected.
func parsePaging(r *http.Request) (page, pageSize int, err error) {
	q := r.URL.Query()
	if page, err = parseIntParam(q.Get("page"), "page"); err != nil {
		return 0, 0, err
	}
	if pageSize, err = parseIntParam(q.Get("limit"), "limit"); err != nil {
		return 0, 0, err
	}
	page, pageSize, _ = models.NormalizePage(page, pageSize)
	return page, pageSize, nil
}

func parseIntParam(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", models.ErrValidation, name)
	}
	return n, nil
}

func parseBoolParam(s, name string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", models.ErrValidation, name)
	}
	return &b, nil
}

func parseTimeParam(s, name string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an RFC3339 timestamp", models.ErrValidation, name)
	}
	return &t, nil
}
