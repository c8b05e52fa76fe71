// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateConfig points CONFIG_PATH at a missing file and moves into an empty
// directory so no stray config.yaml is picked up.
func isolateConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	t.Chdir(dir)
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Feed.Provider != ProviderDatalastic {
		t.Errorf("Feed.Provider = %q, want %q", cfg.Feed.Provider, ProviderDatalastic)
	}
	if cfg.Feed.Timeout != 20*time.Second {
		t.Errorf("Feed.Timeout = %v, want 20s", cfg.Feed.Timeout)
	}
	if cfg.Poller.Interval != 30*time.Second {
		t.Errorf("Poller.Interval = %v, want 30s", cfg.Poller.Interval)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Events.Topic != "tidewatch.anomalies" {
		t.Errorf("Events.Topic = %q", cfg.Events.Topic)
	}
	if !cfg.Detection.SignalLossEnabled || !cfg.Detection.TrackDeviationEnabled || !cfg.Detection.ZoneIncursionEnabled {
		t.Error("all detectors should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DATALASTIC_API_KEY", "feed.api_key"},
		{"VESSELFINDER_API_KEY", "feed.api_key"},
		{"FEED_PROVIDER", "feed.provider"},
		{"POLL_INTERVAL", "poller.interval"},
		{"DUCKDB_PATH", "storage.duckdb.path"},
		{"BADGER_IN_MEMORY", "storage.badger.in_memory"},
		{"TWILIO_PHONE_NUMBER", "alert.twilio.from_number"},
		{"NATS_URL", "events.nats_url"},
		{"log_level", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	isolateConfig(t)
	t.Setenv("DATALASTIC_API_KEY", "dl-key")
	t.Setenv("POLL_INTERVAL", "45s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("WEBHOOK_HEADERS", "Authorization=Bearer xyz,X-Source=tidewatch")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Feed.APIKey != "dl-key" {
		t.Errorf("Feed.APIKey = %q, want dl-key", cfg.Feed.APIKey)
	}
	if cfg.Poller.Interval != 45*time.Second {
		t.Errorf("Poller.Interval = %v, want 45s", cfg.Poller.Interval)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Alert.Webhook.Headers["Authorization"] != "Bearer xyz" || cfg.Alert.Webhook.Headers["X-Source"] != "tidewatch" {
		t.Errorf("Webhook.Headers = %v", cfg.Alert.Webhook.Headers)
	}
}

func TestLoadWithKoanf_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tidewatch.yaml")
	yaml := strings.Join([]string{
		"feed:",
		"  provider: vesselfinder",
		"  api_key: from-file",
		"poller:",
		"  interval: 1m",
		"storage:",
		"  backend: persistent",
		"  duckdb:",
		"    path: " + filepath.Join(dir, "db.duckdb"),
		"  badger:",
		"    in_memory: true",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("FEED_API_KEY", "from-env")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Feed.Provider != ProviderVesselFinder {
		t.Errorf("Feed.Provider = %q, want vesselfinder", cfg.Feed.Provider)
	}
	if cfg.Feed.APIKey != "from-env" {
		t.Errorf("Feed.APIKey = %q, env should override file", cfg.Feed.APIKey)
	}
	if cfg.Poller.Interval != time.Minute {
		t.Errorf("Poller.Interval = %v, want 1m", cfg.Poller.Interval)
	}
	if cfg.Storage.Backend != BackendPersistent || !cfg.Storage.Badger.InMemory {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad provider", func(c *Config) { c.Feed.Provider = "marinetraffic" }, "FEED_PROVIDER"},
		{"tiny interval", func(c *Config) { c.Poller.Interval = time.Millisecond }, "POLL_INTERVAL"},
		{"bad backend", func(c *Config) { c.Storage.Backend = "redis" }, "STORAGE_BACKEND"},
		{"twilio without creds", func(c *Config) { c.Alert.Channel = ChannelTwilio }, "TWILIO_ACCOUNT_SID"},
		{"webhook without url", func(c *Config) { c.Alert.Channel = ChannelWebhook }, "WEBHOOK_URL"},
		{"bad nats url", func(c *Config) { c.Events.NATSURL = "http://nats:4222" }, "NATS_URL"},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }, "JWT_SECRET"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 9090}
	if got := s.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("Addr() = %q", got)
	}
}
