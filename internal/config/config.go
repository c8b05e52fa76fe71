// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig
//  2. Config File: optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment Variables: explicit mappings in envTransformFunc
//
// Config is immutable after LoadWithKoanf and safe for concurrent reads.
type Config struct {
	Feed      FeedConfig      `koanf:"feed"`
	Poller    PollerConfig    `koanf:"poller"`
	Detection DetectionConfig `koanf:"detection"`
	Storage   StorageConfig   `koanf:"storage"`
	Alert     AlertConfig     `koanf:"alert"`
	Events    EventsConfig    `koanf:"events"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// Feed providers.
const (
	ProviderDatalastic   = "datalastic"
	ProviderVesselFinder = "vesselfinder"
)

// FeedConfig configures the vessel position provider.
//
// Environment Variables:
//   - FEED_PROVIDER: datalastic or vesselfinder (default: datalastic)
//   - DATALASTIC_API_KEY / VESSELFINDER_API_KEY / FEED_API_KEY: provider credential
//   - FEED_BASE_URL: override the provider endpoint (tests, proxies)
//   - FEED_TIMEOUT: per-request timeout (default: 20s)
//   - FEED_RATE_LIMIT: sustained requests per second (default: 1)
//   - FEED_BURST: burst allowance (default: 3)
type FeedConfig struct {
	Provider       string        `koanf:"provider"`
	APIKey         string        `koanf:"api_key"`
	BaseURL        string        `koanf:"base_url"`
	Timeout        time.Duration `koanf:"timeout"`
	RateLimit      float64       `koanf:"rate_limit"`
	Burst          int           `koanf:"burst"`
	BreakerEnabled bool          `koanf:"breaker_enabled"`
}

// PollerConfig configures the polling cadence. The bounding-box margin
// around each zone is fixed at geo.DefaultPadding.
type PollerConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// DetectionConfig toggles individual detectors. Thresholds are fixed.
type DetectionConfig struct {
	SignalLossEnabled     bool `koanf:"signal_loss_enabled"`
	TrackDeviationEnabled bool `koanf:"track_deviation_enabled"`
	ZoneIncursionEnabled  bool `koanf:"zone_incursion_enabled"`
}

// Storage backends.
const (
	BackendMemory     = "memory"
	BackendPersistent = "persistent"
)

// StorageConfig selects and configures the stores.
//
// With the memory backend all three collections live in process memory.
// With the persistent backend zones and anomalies use DuckDB and vessels
// use Badger.
type StorageConfig struct {
	Backend string       `koanf:"backend"`
	DuckDB  DuckDBConfig `koanf:"duckdb"`
	Badger  BadgerConfig `koanf:"badger"`
}

// DuckDBConfig configures the zone and anomaly database.
type DuckDBConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use NumCPU
}

// BadgerConfig configures the vessel key-value store.
type BadgerConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// Alert channels.
const (
	ChannelNone    = "none"
	ChannelTwilio  = "twilio"
	ChannelWebhook = "webhook"
)

// AlertConfig configures the outbound alert dispatcher.
type AlertConfig struct {
	Channel string        `koanf:"channel"`
	Timeout time.Duration `koanf:"timeout"`
	Twilio  TwilioConfig  `koanf:"twilio"`
	Webhook WebhookConfig `koanf:"webhook"`
}

// TwilioConfig holds Twilio REST credentials.
type TwilioConfig struct {
	AccountSID string `koanf:"account_sid"`
	AuthToken  string `koanf:"auth_token"`
	FromNumber string `koanf:"from_number"`
	BaseURL    string `koanf:"base_url"`
}

// WebhookConfig configures the generic JSON webhook dispatcher.
type WebhookConfig struct {
	URL         string            `koanf:"url"`
	Headers     map[string]string `koanf:"headers"`
	RateLimitMs int               `koanf:"rate_limit_ms"`
}

// EventsConfig configures the anomaly event bus. An empty NATSURL selects
// the in-process gochannel transport.
type EventsConfig struct {
	Topic   string `koanf:"topic"`
	NATSURL string `koanf:"nats_url"`
	// JetStream enables JetStream persistence on the NATS transport.
	JetStream bool `koanf:"jetstream"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds API protection settings.
type SecurityConfig struct {
	// JWTSecret enables bearer-token auth on mutating routes when set.
	JWTSecret       string        `koanf:"jwt_secret"`
	JWTIssuer       string        `koanf:"jwt_issuer"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
