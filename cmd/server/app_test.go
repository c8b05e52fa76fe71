// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package main

import (
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/tidewatch/internal/auth"
	"github.com/tomtom215/tidewatch/internal/config"
	"github.com/tomtom215/tidewatch/internal/database"
	"github.com/tomtom215/tidewatch/internal/feed"
	"github.com/tomtom215/tidewatch/internal/logging"
	"github.com/tomtom215/tidewatch/internal/supervisor"
)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Feed.APIKey = "test-key"
	cfg.Feed.BaseURL = "http://127.0.0.1:1"
	cfg.Server.Port = 0
	cfg.Server.Host = "127.0.0.1"
	return cfg
}

func TestNewApp_MemoryBackend(t *testing.T) {
	a, err := newApp(testConfig())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.close()

	if got := a.tree.Services(supervisor.DataLayer); len(got) != 0 {
		t.Errorf("data layer = %v, want empty for memory backend", got)
	}
	want := []string{"websocket-hub", "websocket-forwarder", "vessel-poller"}
	if got := a.tree.Services(supervisor.MessagingLayer); !reflect.DeepEqual(got, want) {
		t.Errorf("messaging layer = %v, want %v", got, want)
	}
	if got := a.tree.Services(supervisor.APILayer); !reflect.DeepEqual(got, []string{"http-server"}) {
		t.Errorf("api layer = %v", got)
	}
	if a.bus.Transport() != "gochannel" {
		t.Errorf("Transport() = %q, want gochannel", a.bus.Transport())
	}
	if len(a.stores.checks()) != 0 {
		t.Errorf("checks = %v, want none for memory backend", a.stores.checks())
	}
}

func TestNewApp_PersistentBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Backend = config.BackendPersistent
	cfg.Storage.DuckDB.Path = database.MemoryPath
	cfg.Storage.Badger.InMemory = true
	cfg.Poller.Enabled = false
	cfg.Server.Enabled = false

	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.close()

	if got := a.tree.Services(supervisor.DataLayer); !reflect.DeepEqual(got, []string{"vessel-store-compactor"}) {
		t.Errorf("data layer = %v", got)
	}
	if got := a.tree.Services(supervisor.MessagingLayer); !reflect.DeepEqual(got, []string{"websocket-hub", "websocket-forwarder"}) {
		t.Errorf("messaging layer = %v", got)
	}
	if got := a.tree.Services(supervisor.APILayer); len(got) != 0 {
		t.Errorf("api layer = %v, want empty with server disabled", got)
	}
	checks := a.stores.checks()
	for _, name := range []string{"duckdb", "badger"} {
		if checks[name] == nil {
			t.Errorf("missing %s readiness check", name)
			continue
		}
		if err := checks[name].Ping(t.Context()); err != nil {
			t.Errorf("%s Ping() = %v", name, err)
		}
	}
}

func TestNewApp_MissingFeedKey(t *testing.T) {
	cfg := testConfig()
	cfg.Feed.APIKey = ""
	_, err := newApp(cfg)
	if !errors.Is(err, feed.ErrConfiguration) {
		t.Errorf("newApp() error = %v, want ErrConfiguration", err)
	}
}

func TestIssueOperatorToken(t *testing.T) {
	sec := config.SecurityConfig{JWTSecret: "issue-token-test-secret", JWTIssuer: "tidewatch"}
	token, err := issueOperatorToken(sec, "ops@example", time.Hour)
	if err != nil {
		t.Fatalf("issueOperatorToken: %v", err)
	}
	manager, err := auth.NewJWTManager(sec)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "ops@example" || claims.Role != auth.RoleOperator {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := issueOperatorToken(config.SecurityConfig{}, "ops", time.Hour); !errors.Is(err, auth.ErrNoSecret) {
		t.Errorf("without secret error = %v, want ErrNoSecret", err)
	}
}
