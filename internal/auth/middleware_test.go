// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRequireToken(t *testing.T) {
	m := newTestManager(t)
	tok, err := m.GenerateToken("ops", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var sawSubject string
	h := m.RequireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := ClaimsFromContext(r.Context()); ok {
			sawSubject = c.Subject
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name        string
		method      string
		auth        string
		wantStatus  int
		wantSubject string
	}{
		{name: "get passes", method: http.MethodGet, wantStatus: http.StatusNoContent},
		{name: "options passes", method: http.MethodOptions, wantStatus: http.StatusNoContent},
		{name: "post without token", method: http.MethodPost, wantStatus: http.StatusUnauthorized},
		{name: "delete wrong scheme", method: http.MethodDelete, auth: "Basic " + tok, wantStatus: http.StatusUnauthorized},
		{name: "put bad token", method: http.MethodPut, auth: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "post valid", method: http.MethodPost, auth: "Bearer " + tok, wantStatus: http.StatusNoContent, wantSubject: "ops"},
		{name: "lowercase scheme", method: http.MethodPost, auth: "bearer " + tok, wantStatus: http.StatusNoContent, wantSubject: "ops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sawSubject = ""
			req := httptest.NewRequest(tt.method, "/api/v1/zones", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if sawSubject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", sawSubject, tt.wantSubject)
			}
			if rec.Code == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}
