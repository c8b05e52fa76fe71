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

// ListVessels returns a page of vessels, most recently seen first.
func (h *Handler) ListVessels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	page, size, err := parsePaging(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	result, err := h.vessels.List(r.Context(), page, size)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, models.NewPaginatedResponse(result), start)
}

// GetVessel returns one vessel including its position history.
func (h *Handler) GetVessel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	vessel, err := h.vessels.Get(r.Context(), chi.URLParam(r, "mmsi"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, vessel, start)
}

// VesselHistory returns the stored positions of a vessel, oldest first.
func (h *Handler) VesselHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	history, err := h.vessels.History(r.Context(), chi.URLParam(r, "mmsi"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if history == nil {
		history = []models.PositionPoint{}
	}
	respondData(w, r, http.StatusOK, history, start)
}

// DeleteVessel forgets a vessel. A later report recreates it.
func (h *Handler) DeleteVessel(w http.ResponseWriter, r *http.Request) {
	mmsi := chi.URLParam(r, "mmsi")
	if err := h.vessels.Delete(r.Context(), mmsi); err != nil {
		respondErr(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("mmsi", sanitizeLogValue(mmsi)).Msg("Vessel deleted")
	w.WriteHeader(http.StatusNoContent)
}
