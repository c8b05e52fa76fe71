// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tidewatch/internal/logging"
	"github.com/tomtom215/tidewatch/internal/models"
)

// ListAnomalies returns a filtered page of anomalies, newest first.
func (h *Handler) ListAnomalies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, err := parseAnomalyQuery(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	result, err := h.anomalies.Query(r.Context(), q.Filter, q.Page, q.PageSize)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, models.NewPaginatedResponse(result), start)
}

// GetAnomaly returns one anomaly.
func (h *Handler) GetAnomaly(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	a, err := h.anomalies.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, a, start)
}

// CreateAnomaly records an anomaly reported by an operator.
// The timestamp defaults to the time of the request.
func (h *Handler) CreateAnomaly(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req AnomalyCreateRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	kind, err := models.ParseAnomalyKind(req.Kind)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	at := h.now().UTC()
	if req.Timestamp != nil {
		at = req.Timestamp.UTC()
	}
	var details interface{}
	if trimmed := bytes.TrimSpace(req.Details); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		details = req.Details
	}

	loc := models.Location{Lat: *req.Location.Lat, Lon: *req.Location.Lon}
	a, err := models.NewAnomaly(req.MMSI, req.VesselName, kind, loc, details, at)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if err := h.anomalies.Insert(r.Context(), a); err != nil {
		respondErr(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("anomaly_id", a.ID).
		Str("mmsi", a.MMSI).
		Str("kind", string(a.Kind)).
		Msg("Anomaly recorded manually")
	respondData(w, r, http.StatusCreated, a, start)
}

// UpdateAnomaly sets any of confirmed, resolved and feedback. At least one
// must be present.
func (h *Handler) UpdateAnomaly(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req AnomalyUpdateRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	if req.Confirmed == nil && req.Resolved == nil && req.Feedback == nil {
		respondErr(w, r, fmt.Errorf("%w: one of confirmed, resolved or feedback is required", models.ErrValidation))
		return
	}

	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if _, err := h.anomalies.Get(ctx, id); err != nil {
		respondErr(w, r, err)
		return
	}

	if req.Confirmed != nil {
		if err := h.anomalies.SetConfirmed(ctx, id, *req.Confirmed); err != nil {
			respondErr(w, r, err)
			return
		}
	}
	if req.Resolved != nil {
		if err := h.anomalies.SetResolved(ctx, id, *req.Resolved); err != nil {
			respondErr(w, r, err)
			return
		}
	}
	if req.Feedback != nil {
		fb := models.Feedback{Accurate: *req.Feedback.Accurate, Notes: req.Feedback.Notes}
		if err := h.anomalies.SetFeedback(ctx, id, fb); err != nil {
			respondErr(w, r, err)
			return
		}
	}

	a, err := h.anomalies.Get(ctx, id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	logging.Ctx(ctx).Info().
		Str("anomaly_id", a.ID).
		Bool("confirmed", a.Confirmed).
		Bool("resolved", a.Resolved).
		Bool("feedback", a.Feedback != nil).
		Msg("Anomaly updated")
	respondData(w, r, http.StatusOK, a, start)
}

// DeleteAnomaly removes an anomaly.
func (h *Handler) DeleteAnomaly(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.anomalies.Delete(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("anomaly_id", sanitizeLogValue(id)).Msg("Anomaly deleted")
	w.WriteHeader(http.StatusNoContent)
}

// SendAnomalyAlert delivers an alert for an anomaly to the requested
// destination. Delivery is attempted once.
func (h *Handler) SendAnomalyAlert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req AlertRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	a, err := h.anomalies.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	result, err := h.alerts.SendAnomalyAlert(r.Context(), a, req.Destination)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, result, start)
}
