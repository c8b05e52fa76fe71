// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/tidewatch/internal/models"
)

type paginated[T any] struct {
	Items       []T `json:"items"`
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

func TestListVessels_Pagination(t *testing.T) {
	env := setupEnv(t, Deps{}, RouterOptions{})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedVessel(t, env.vessels, "244000001", 51.5, 4.5, base)
	seedVessel(t, env.vessels, "244000002", 51.6, 4.6, base.Add(time.Minute))
	seedVessel(t, env.vessels, "244000003", 51.7, 4.7, base.Add(2*time.Minute))

	rec, body := env.do(t, http.MethodGet, "/api/v1/vessels?page=1&limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page paginated[models.Vessel]
	decodeData(t, body, &page)
	if page.Total != 3 || page.TotalPages != 2 || page.CurrentPage != 1 || page.PageSize != 2 {
		t.Errorf("page meta = %+v", page)
	}
	if len(page.Items) != 2 || page.Items[0].MMSI != "244000003" {
		t.Errorf("items = %+v, want most recent first", page.Items)
	}

	rec, body = env.do(t, http.MethodGet, "/api/v1/vessels?page=2&limit=2", nil)
	decodeData(t, body, &page)
	if rec.Code != http.StatusOK || len(page.Items) != 1 || page.Items[0].MMSI != "244000001" {
		t.Errorf("second page = %+v", page.Items)
	}
}

func TestListVessels_BadPaging(t *testing.T) {
	env := setupEnv(t, Deps{}, RouterOptions{})
	for _, q := range []string{"page=abc", "limit=-1"} {
		rec, _ := env.do(t, http.MethodGet, "/api/v1/vessels?"+q, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestVesselGetHistoryDelete(t *testing.T) {
	env := setupEnv(t, Deps{}, RouterOptions{})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedVessel(t, env.vessels, "244000001", 51.5, 4.5, base)
	seedVessel(t, env.vessels, "244000001", 51.6, 4.6, base.Add(time.Minute))

	rec, body := env.do(t, http.MethodGet, "/api/v1/vessels/244000001", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var v models.Vessel
	decodeData(t, body, &v)
	if v.Lat != 51.6 || v.Name != "TEST 244000001" {
		t.Errorf("vessel = %+v", v)
	}

	rec, body = env.do(t, http.MethodGet, "/api/v1/vessels/244000001/history", nil)
	var history []models.PositionPoint
	decodeData(t, body, &history)
	if rec.Code != http.StatusOK || len(history) != 2 || history[0].Lat != 51.5 {
		t.Errorf("history = %+v", history)
	}

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/vessels/244000001", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	for _, path := range []string{"/api/v1/vessels/244000001", "/api/v1/vessels/244000001/history"} {
		rec, _ = env.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s after delete: status = %d, want 404", path, rec.Code)
		}
	}
}
