// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/tidewatch/internal/config"
	"github.com/tomtom215/tidewatch/internal/models"
)

var testBBox = models.BoundingBox{MinLat: 5.1, MinLon: -0.5, MaxLat: 5.2, MaxLon: -0.4}

func newTestAdapter(t *testing.T, cfg config.FeedConfig, h http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	if cfg.APIKey == "" {
		cfg.APIKey = "test-api-key"
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestNew_Configuration(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.FeedConfig
	}{
		{"missing key", config.FeedConfig{Provider: config.ProviderDatalastic}},
		{"blank key", config.FeedConfig{Provider: config.ProviderVesselFinder, APIKey: "  "}},
		{"unknown provider", config.FeedConfig{Provider: "marinetraffic", APIKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, ErrConfiguration) {
				t.Errorf("New() error = %v, want ErrConfiguration", err)
			}
		})
	}

	a, err := New(config.FeedConfig{APIKey: "k"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.Name() != config.ProviderDatalastic {
		t.Errorf("default provider = %q", a.Name())
	}
}

func TestFetch_ZeroValueAdapter(t *testing.T) {
	a := &Adapter{provider: providers[config.ProviderDatalastic]}
	if _, err := a.Fetch(context.Background(), testBBox); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Fetch() error = %v, want ErrConfiguration", err)
	}
}

func TestFetch_Datalastic(t *testing.T) {
	var gotPath, gotQuery string
	a := newTestAdapter(t, config.FeedConfig{Provider: config.ProviderDatalastic},
		func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(datalasticOK))
		})

	reports, err := a.Fetch(context.Background(), testBBox)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(reports) != 3 {
		t.Errorf("len = %d, want 3 (filtering is the caller's job)", len(reports))
	}
	if len(FilterValid(reports)) != 2 {
		t.Errorf("valid = %d, want 2", len(FilterValid(reports)))
	}
	if gotPath != "/api/v0/vessel_pro" {
		t.Errorf("path = %q", gotPath)
	}
	for _, want := range []string{"api-key=test-api-key", "param=area", "value=5.1%2C-0.5%2C5.2%2C-0.4"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestFetch_VesselFinder(t *testing.T) {
	var gotQuery string
	a := newTestAdapter(t, config.FeedConfig{Provider: config.ProviderVesselFinder},
		func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			if r.URL.Path != "/vessels" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(`[{"AIS":{"MMSI":244660000,"NAME":"NORTH STAR","LATITUDE":5.15,"LONGITUDE":-0.45}}]`))
		})

	reports, err := a.Fetch(context.Background(), testBBox)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(reports) != 1 || reports[0].MMSI != "244660000" {
		t.Errorf("reports = %+v", reports)
	}
	for _, want := range []string{"userkey=test-api-key", "format=json", "bbox=5.1%2C-0.5%2C5.2%2C-0.4"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestFetch_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"unauthorized", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		}},
		{"status not ok", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":"error","message":"quota exceeded"}`))
		}},
		{"garbage", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t, config.FeedConfig{Provider: config.ProviderDatalastic}, tt.handler)
			_, err := a.Fetch(context.Background(), testBBox)
			if !errors.Is(err, ErrProvider) {
				t.Errorf("Fetch() error = %v, want ErrProvider", err)
			}
		})
	}
}

func TestFetch_TimeoutIsProviderError(t *testing.T) {
	a := newTestAdapter(t, config.FeedConfig{Provider: config.ProviderDatalastic, Timeout: 50 * time.Millisecond},
		func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})

	_, err := a.Fetch(context.Background(), testBBox)
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("Fetch() error = %v, want ErrProvider", err)
	}
	if strings.Contains(err.Error(), "test-api-key") {
		t.Errorf("error leaks API key: %v", err)
	}
}

func TestFetch_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	a := newTestAdapter(t, config.FeedConfig{Provider: config.ProviderDatalastic, BreakerEnabled: true},
		func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			http.Error(w, "down", http.StatusBadGateway)
		})

	for i := 0; i < breakerMinRequests+3; i++ {
		if _, err := a.Fetch(context.Background(), testBBox); !errors.Is(err, ErrProvider) {
			t.Fatalf("call %d error = %v, want ErrProvider", i, err)
		}
	}
	if got := hits.Load(); got != breakerMinRequests {
		t.Errorf("upstream hits = %d, want %d (breaker should reject the rest)", got, breakerMinRequests)
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	a := newTestAdapter(t, config.FeedConfig{Provider: config.ProviderDatalastic, RateLimit: 0.001, Burst: 1},
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ok","data":[]}`))
		})

	// First call consumes the only token.
	if _, err := a.Fetch(context.Background(), testBBox); err != nil {
		t.Fatalf("first Fetch() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := a.Fetch(ctx, testBBox); !errors.Is(err, ErrProvider) {
		t.Errorf("limited Fetch() error = %v, want ErrProvider", err)
	}
}
