// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tidewatch/internal/logging"
	"github.com/tomtom215/tidewatch/internal/models"
)

// ListZones returns every zone, active or not.
func (h *Handler) ListZones(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	zones, err := h.zones.List(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if zones == nil {
		zones = []models.Zone{}
	}
	respondData(w, r, http.StatusOK, zones, start)
}

// CreateZone registers a new zone. Zones are active unless the request says otherwise.
func (h *Handler) CreateZone(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req ZoneRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	zone, err := models.NewZone(req.Name, req.Polygon, active, h.now().UTC())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if err := h.zones.Create(r.Context(), zone); err != nil {
		respondErr(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("zone_id", zone.ID).
		Str("zone", sanitizeLogValue(zone.Name)).
		Bool("active", zone.Active).
		Msg("Zone created")
	respondData(w, r, http.StatusCreated, zone, start)
}

// GetZone returns one zone.
func (h *Handler) GetZone(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	zone, err := h.zones.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, zone, start)
}

// UpdateZone replaces the name and polygon of a zone. Active is left as is
// when omitted.
func (h *Handler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req ZoneRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	zone, err := h.zones.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	// NewZone carries the name and polygon checks; only its fields are kept.
	active := zone.Active
	if req.Active != nil {
		active = *req.Active
	}
	checked, err := models.NewZone(req.Name, req.Polygon, active, h.now().UTC())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	zone.Name = checked.Name
	zone.Polygon = checked.Polygon
	zone.Active = checked.Active
	zone.UpdatedAt = checked.UpdatedAt

	if err := h.zones.Update(r.Context(), zone); err != nil {
		respondErr(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("zone_id", zone.ID).Bool("active", zone.Active).Msg("Zone updated")
	respondData(w, r, http.StatusOK, zone, start)
}

// DeleteZone removes a zone.
func (h *Handler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.zones.Delete(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("zone_id", sanitizeLogValue(id)).Msg("Zone deleted")
	w.WriteHeader(http.StatusNoContent)
}
