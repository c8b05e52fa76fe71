// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/tidewatch/internal/alert"
	"github.com/tomtom215/tidewatch/internal/models"
)

func TestListAnomalies_Filters(t *testing.T) {
	env := setupEnv(t, Deps{}, RouterOptions{})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedAnomaly(t, env.anomalies, "244000001", models.KindSignalLoss, base)
	zone := seedAnomaly(t, env.anomalies, "244000002", models.KindZoneIncursion, base.Add(time.Hour))
	seedAnomaly(t, env.anomalies, "244000001", models.KindTrackDeviation, base.Add(2*time.Hour))

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 3},
		{"kind", "kind=zone_incursion", 1},
		{"mmsi", "mmsi=244000001", 2},
		{"from", "from=" + base.Add(30*time.Minute).Format(time.RFC3339), 2},
		{"window", "from=" + base.Add(30*time.Minute).Format(time.RFC3339) + "&to=" + base.Add(90*time.Minute).Format(time.RFC3339), 1},
		{"unconfirmed", "confirmed=false", 3},
		{"resolved", "resolved=true", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := env.do(t, http.MethodGet, "/api/v1/anomalies?"+tt.query, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			var page paginated[models.Anomaly]
			decodeData(t, body, &page)
			if page.Total != tt.want || len(page.Items) != tt.want {
				t.Errorf("total = %d items = %d, want %d", page.Total, len(page.Items), tt.want)
			}
		})
	}

	t.Run("newest first", func(t *testing.T) {
		_, body := env.do(t, http.MethodGet, "/api/v1/anomalies?mmsi=244000002", nil)
		var page paginated[models.Anomaly]
		decodeData(t, body, &page)
		if len(page.Items) != 1 || page.Items[0].ID != zone.ID {
			t.Errorf("items = %+v", page.Items)
		}
	})
}

func TestListAnomalies_BadFilters(t *testing.T) {
	env := setupEnv(t, Deps{}, RouterOptions{})
	for _, q := range []string{
		"kind=SPEEDING",
		"confirmed=maybe",
		"resolved=2x",
		"from=yesterday",
		"from=2026-03-02T00:00:00Z&to=2026-03-01T00:00:00Z",
		"page=x",
	} {
		rec, _ := env.do(t, http.MethodGet, "/api/v1/anomalies?"+q, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestCreateAnomaly(t *testing.T) {
	env := setupEnv(t, Deps{}, RouterOptions{})
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.handler.now = func() time.Time { return fixed }

	body := `{"mmsi":"244000001","vesselName":"EVER GIVEN","kind":"zone_incursion",` +
		`"location":{"lat":51.9,"lon":4.1},"details":{"zoneId":"z1","zoneName":"Harbour"}}`
	rec, env1 := env.do(t, http.MethodPost, "/api/v1/anomalies", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var a models.Anomaly
	decodeData(t, env1, &a)
	if a.Kind != models.KindZoneIncursion || a.Confirmed || a.Resolved {
		t.Errorf("anomaly = %+v", a)
	}
	if !a.Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want request time %v", a.Timestamp, fixed)
	}
	var details models.ZoneIncursionDetails
	if err := a.DecodeDetails(&details); err != nil || details.ZoneName != "Harbour" {
		t.Errorf("details = %+v, err %v", details, err)
	}

	stored, err := env.anomalies.Get(t.Context(), a.ID)
	if err != nil || stored.MMSI != "244000001" {
		t.Errorf("stored = %+v, err %v", stored, err)
	}
}

func TestCreateAnomaly_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short mmsi", `{"mmsi":"1234","kind":"SIGNAL_LOSS","location":{"lat":1,"lon":1}}`},
		{"unknown kind", `{"mmsi":"244000001","kind":"PIRACY","location":{"lat":1,"lon":1}}`},
		{"missing location", `{"mmsi":"244000001","kind":"SIGNAL_LOSS"}`},
		{"latitude out of range", `{"mmsi":"244000001","kind":"SIGNAL_LOSS","location":{"lat":91,"lon":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t, Deps{}, RouterOptions{})
			rec, body := env.do(t, http.MethodPost, "/api/v1/anomalies", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
			if body.Error == nil || body.Error.Code != ErrCodeValidation {
				t.Errorf("error = %+v", body.Error)
			}
		})
	}
}

func TestUpdateAnomaly(t *testing.T) {
	env := setupEnv(t, Deps{}, RouterOptions{})
	a := seedAnomaly(t, env.anomalies, "244000001", models.KindSignalLoss, time.Now().UTC())
	path := "/api/v1/anomalies/" + a.ID

	rec, body := env.do(t, http.MethodPut, path, `{"confirmed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got models.Anomaly
	decodeData(t, body, &got)
	if !got.Confirmed || got.Resolved || got.Feedback != nil {
		t.Errorf("after confirm = %+v", got)
	}

	rec, body = env.do(t, http.MethodPut, path, `{"resolved":true,"feedback":{"accurate":false,"notes":"buoy"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	decodeData(t, body, &got)
	if !got.Confirmed || !got.Resolved || got.Feedback == nil || got.Feedback.Accurate || got.Feedback.Notes != "buoy" {
		t.Errorf("after resolve = %+v", got)
	}
	if got.Kind != models.KindSignalLoss {
		t.Errorf("Kind changed to %s", got.Kind)
	}

	// kind is not an accepted field
	rec, _ = env.do(t, http.MethodPut, path, `{"kind":"ZONE_INCURSION"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("kind-only update status = %d, want 400", rec.Code)
	}
	rec, _ = env.do(t, http.MethodPut, path, `{"feedback":{"notes":"x"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("feedback without accurate status = %d, want 400", rec.Code)
	}
	rec, _ = env.do(t, http.MethodPut, "/api/v1/anomalies/missing", `{"confirmed":true}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing anomaly status = %d, want 404", rec.Code)
	}
}

func TestDeleteAnomaly(t *testing.T) {
	env := setupEnv(t, Deps{}, RouterOptions{})
	a := seedAnomaly(t, env.anomalies, "244000001", models.KindSignalLoss, time.Now().UTC())

	rec, _ := env.do(t, http.MethodDelete, "/api/v1/anomalies/"+a.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	rec, _ = env.do(t, http.MethodDelete, "/api/v1/anomalies/"+a.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestSendAnomalyAlert(t *testing.T) {
	tests := []struct {
		name       string
		dispatcher *fakeDispatcher
		body       string
		wantCode   int
	}{
		{"not configured", nil, `{"destination":"+15550001"}`, http.StatusServiceUnavailable},
		{"sent", &fakeDispatcher{}, `{"destination":"+15550001"}`, http.StatusOK},
		{"missing destination", &fakeDispatcher{}, `{}`, http.StatusBadRequest},
		{"provider failure", &fakeDispatcher{err: fmt.Errorf("%w: status 500", alert.ErrDelivery)}, `{"destination":"+15550001"}`, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := Deps{}
			if tt.dispatcher != nil {
				deps.Alerts = alert.NewService(tt.dispatcher)
			}
			env := setupEnv(t, deps, RouterOptions{})
			a := seedAnomaly(t, env.anomalies, "244000001", models.KindSignalLoss, time.Now().UTC())

			rec, body := env.do(t, http.MethodPost, "/api/v1/anomalies/"+a.ID+"/alert", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var res alert.DeliveryResult
			decodeData(t, body, &res)
			if res.ProviderID != "msg-1" || res.Destination != "+15550001" {
				t.Errorf("result = %+v", res)
			}
			if len(tt.dispatcher.sent) != 1 || !strings.Contains(tt.dispatcher.sent[0], "TEST 244000001") {
				t.Errorf("sent = %v", tt.dispatcher.sent)
			}
		})
	}
}

func TestSendAnomalyAlert_UnknownAnomaly(t *testing.T) {
	env := setupEnv(t, Deps{Alerts: alert.NewService(&fakeDispatcher{})}, RouterOptions{})
	rec, _ := env.do(t, http.MethodPost, "/api/v1/anomalies/missing/alert", `{"destination":"+15550001"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
