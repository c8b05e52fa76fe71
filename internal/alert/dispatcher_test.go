// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package alert

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tidewatch/internal/config"
)

func TestNewDispatcher(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.AlertConfig
		wantNil  bool
		wantName string
		wantErr  bool
	}{
		{name: "none", cfg: config.AlertConfig{Channel: config.ChannelNone}, wantNil: true},
		{name: "empty", cfg: config.AlertConfig{}, wantNil: true},
		{name: "unknown", cfg: config.AlertConfig{Channel: "pigeon"}, wantErr: true},
		{name: "twilio missing creds", cfg: config.AlertConfig{Channel: config.ChannelTwilio}, wantErr: true},
		{
			name:    "twilio missing from",
			cfg:     config.AlertConfig{Channel: config.ChannelTwilio, Twilio: config.TwilioConfig{AccountSID: "AC1", AuthToken: "t"}},
			wantErr: true,
		},
		{
			name:     "twilio",
			cfg:      config.AlertConfig{Channel: config.ChannelTwilio, Twilio: config.TwilioConfig{AccountSID: "AC1", AuthToken: "t", FromNumber: "+15550000"}},
			wantName: "twilio",
		},
		{name: "webhook missing url", cfg: config.AlertConfig{Channel: config.ChannelWebhook}, wantErr: true},
		{
			name:     "webhook",
			cfg:      config.AlertConfig{Channel: config.ChannelWebhook, Webhook: config.WebhookConfig{URL: "http://example.invalid"}},
			wantName: "webhook",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDispatcher(tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrNotConfigured) {
					t.Fatalf("err = %v, want ErrNotConfigured", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if d != nil {
					t.Fatalf("dispatcher = %v, want nil", d)
				}
				return
			}
			if d.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", d.Name(), tt.wantName)
			}
		})
	}
}

func newTwilio(t *testing.T, h http.HandlerFunc) *TwilioDispatcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	d, err := NewTwilioDispatcher(config.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15550001111",
		BaseURL:    srv.URL + "/",
	}, time.Second)
	if err != nil {
		t.Fatalf("NewTwilioDispatcher: %v", err)
	}
	return d
}

func TestTwilioDispatcher_Send(t *testing.T) {
	var got url.Values
	d := newTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Messages.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "secret" {
			t.Errorf("basic auth = %q %q %v", user, pass, ok)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		got = r.PostForm
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"sid":"SM42","status":"queued"}`)
	})

	res, err := d.Send(context.Background(), "+447700900123", "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.ProviderID != "SM42" || res.Status != "queued" || res.Channel != "twilio" {
		t.Errorf("result = %+v", res)
	}
	if got.Get("To") != "+447700900123" || got.Get("From") != "+15550001111" || got.Get("Body") != "hello" {
		t.Errorf("form = %v", got)
	}
}

func TestTwilioDispatcher_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "api error", status: http.StatusBadRequest, body: `{"code":21211,"message":"Invalid 'To' Phone Number"}`},
		{name: "plain error", status: http.StatusInternalServerError, body: `oops`},
		{name: "failed status", status: http.StatusCreated, body: `{"sid":"SM1","status":"failed","error_message":"blocked"}`},
		{name: "bad json", status: http.StatusOK, body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTwilio(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			if _, err := d.Send(context.Background(), "+1", "m"); !errors.Is(err, ErrDelivery) {
				t.Fatalf("err = %v, want ErrDelivery", err)
			}
		})
	}
}

func TestWebhookDispatcher_Send(t *testing.T) {
	var payload WebhookPayload
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("X-Token") != "abc" {
			t.Errorf("X-Token = %q", r.Header.Get("X-Token"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d, err := NewWebhookDispatcher(config.WebhookConfig{
		URL:         srv.URL,
		Headers:     map[string]string{"X-Token": "abc"},
		RateLimitMs: 1,
	}, time.Second)
	if err != nil {
		t.Fatalf("NewWebhookDispatcher: %v", err)
	}

	res, err := d.Send(context.Background(), "ops", "vessel went dark")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Status != "204" || res.Channel != "webhook" {
		t.Errorf("result = %+v", res)
	}
	if payload.Message != "vessel went dark" || payload.Destination != "ops" || payload.Source != "tidewatch" || payload.EventType != "anomaly_alert" {
		t.Errorf("payload = %+v", payload)
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", hits.Load())
	}
}

func TestWebhookDispatcher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d, err := NewWebhookDispatcher(config.WebhookConfig{URL: srv.URL}, time.Second)
	if err != nil {
		t.Fatalf("NewWebhookDispatcher: %v", err)
	}
	if _, err := d.Send(context.Background(), "ops", "m"); !errors.Is(err, ErrDelivery) {
		t.Fatalf("err = %v, want ErrDelivery", err)
	}
}

func TestWebhookDispatcher_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	d, err := NewWebhookDispatcher(config.WebhookConfig{URL: srv.URL, RateLimitMs: 60000}, time.Second)
	if err != nil {
		t.Fatalf("NewWebhookDispatcher: %v", err)
	}
	if _, err := d.Send(context.Background(), "ops", "first"); err != nil {
		t.Fatalf("first Send: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := d.Send(ctx, "ops", "second"); !errors.Is(err, ErrDelivery) {
		t.Fatalf("err = %v, want ErrDelivery", err)
	}
}
