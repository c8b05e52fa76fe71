// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tidewatch/config.yaml",
	"/etc/tidewatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultEventTopic is the event bus topic anomalies are published on.
const DefaultEventTopic = "tidewatch.anomalies"

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			Provider:       ProviderDatalastic,
			APIKey:         "",
			BaseURL:        "", // provider default
			Timeout:        20 * time.Second,
			RateLimit:      1,
			Burst:          3,
			BreakerEnabled: true,
		},
		Poller: PollerConfig{
			Enabled:  true,
			Interval: 30 * time.Second,
		},
		Detection: DetectionConfig{
			SignalLossEnabled:     true,
			TrackDeviationEnabled: true,
			ZoneIncursionEnabled:  true,
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
			DuckDB: DuckDBConfig{
				Path:      "/data/tidewatch.duckdb",
				MaxMemory: "1GB",
				Threads:   0,
			},
			Badger: BadgerConfig{
				Path:       "/data/vessels",
				InMemory:   false,
				SyncWrites: false,
				GCInterval: 10 * time.Minute,
			},
		},
		Alert: AlertConfig{
			Channel: ChannelNone,
			Timeout: 10 * time.Second,
			Twilio: TwilioConfig{
				BaseURL: "https://api.twilio.com",
			},
			Webhook: WebhookConfig{
				RateLimitMs: 500,
			},
		},
		Events: EventsConfig{
			Topic:     DefaultEventTopic,
			NATSURL:   "",
			JetStream: false,
		},
		Server: ServerConfig{
			Enabled:         true,
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			JWTSecret:       "",
			JWTIssuer:       "tidewatch",
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Defaults returns a copy of the built-in defaults. Used by tests and by
// callers that assemble configuration without the environment.
func Defaults() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}
	if err := processMapFields(k); err != nil {
		return nil, fmt.Errorf("failed to process map fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// mapConfigPaths defines which config paths should be parsed as
// comma-separated key=value pairs.
var mapConfigPaths = []string{
	"alert.webhook.headers",
}

// splitCSV splits s on commas, trimming blanks.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		if parts := splitCSV(strVal); len(parts) > 0 {
			if err := k.Set(path, parts); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// processMapFields converts "k1=v1,k2=v2" strings to maps for known map fields.
func processMapFields(k *koanf.Koanf) error {
	for _, path := range mapConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		m := make(map[string]interface{})
		for _, pair := range splitCSV(strVal) {
			key, value, found := strings.Cut(pair, "=")
			if !found {
				return fmt.Errorf("%s: malformed pair %q, want key=value", path, pair)
			}
			m[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
		// Delete first so the string value does not survive under the map.
		k.Delete(path)
		if err := k.Set(path, m); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	// Feed
	"feed_provider":        "feed.provider",
	"feed_api_key":         "feed.api_key",
	"datalastic_api_key":   "feed.api_key",
	"vesselfinder_api_key": "feed.api_key",
	"feed_base_url":        "feed.base_url",
	"feed_timeout":         "feed.timeout",
	"feed_rate_limit":      "feed.rate_limit",
	"feed_burst":           "feed.burst",
	"feed_breaker_enabled": "feed.breaker_enabled",

	// Poller
	"poller_enabled": "poller.enabled",
	"poll_interval":  "poller.interval",

	// Detection
	"detect_signal_loss":     "detection.signal_loss_enabled",
	"detect_track_deviation": "detection.track_deviation_enabled",
	"detect_zone_incursion":  "detection.zone_incursion_enabled",

	// Storage
	"storage_backend":    "storage.backend",
	"duckdb_path":        "storage.duckdb.path",
	"duckdb_max_memory":  "storage.duckdb.max_memory",
	"duckdb_threads":     "storage.duckdb.threads",
	"badger_path":        "storage.badger.path",
	"badger_in_memory":   "storage.badger.in_memory",
	"badger_sync_writes": "storage.badger.sync_writes",
	"badger_gc_interval": "storage.badger.gc_interval",

	// Alerts
	"alert_channel":         "alert.channel",
	"alert_timeout":         "alert.timeout",
	"twilio_account_sid":    "alert.twilio.account_sid",
	"twilio_auth_token":     "alert.twilio.auth_token",
	"twilio_phone_number":   "alert.twilio.from_number",
	"twilio_base_url":       "alert.twilio.base_url",
	"webhook_url":           "alert.webhook.url",
	"webhook_headers":       "alert.webhook.headers",
	"webhook_rate_limit_ms": "alert.webhook.rate_limit_ms",

	// Events
	"events_topic":   "events.topic",
	"nats_url":       "events.nats_url",
	"nats_jetstream": "events.jetstream",

	// Server
	"http_enabled":          "server.enabled",
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DATALASTIC_API_KEY -> feed.api_key
//   - POLL_INTERVAL -> poller.interval
//   - DUCKDB_PATH -> storage.duckdb.path
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
