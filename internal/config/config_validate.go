// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that the configuration is internally consistent.
//
// A missing feed credential is not a validation failure here. The feed
// client reports it as feed.ErrConfiguration when it is constructed.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateFeed,
		c.validatePoller,
		c.validateStorage,
		c.validateAlert,
		c.validateEvents,
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateFeed() error {
	switch c.Feed.Provider {
	case ProviderDatalastic, ProviderVesselFinder:
	default:
		return fmt.Errorf("FEED_PROVIDER must be %s or %s, got %q",
			ProviderDatalastic, ProviderVesselFinder, c.Feed.Provider)
	}
	if c.Feed.BaseURL != "" {
		if err := validateHTTPURL(c.Feed.BaseURL, "FEED_BASE_URL"); err != nil {
			return err
		}
	}
	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("FEED_TIMEOUT must be positive")
	}
	if c.Feed.RateLimit <= 0 || c.Feed.Burst < 1 {
		return fmt.Errorf("FEED_RATE_LIMIT must be positive and FEED_BURST at least 1")
	}
	return nil
}

func (c *Config) validatePoller() error {
	if c.Poller.Interval < time.Second {
		return fmt.Errorf("POLL_INTERVAL must be at least 1s, got %v", c.Poller.Interval)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case BackendMemory:
		return nil
	case BackendPersistent:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %s or %s, got %q",
			BackendMemory, BackendPersistent, c.Storage.Backend)
	}
	if c.Storage.DuckDB.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required for the persistent backend")
	}
	if c.Storage.Badger.Path == "" && !c.Storage.Badger.InMemory {
		return fmt.Errorf("BADGER_PATH is required unless BADGER_IN_MEMORY is set")
	}
	return nil
}

func (c *Config) validateAlert() error {
	switch c.Alert.Channel {
	case ChannelNone, "":
		return nil
	case ChannelTwilio:
		t := c.Alert.Twilio
		if t.AccountSID == "" || t.AuthToken == "" || t.FromNumber == "" {
			return fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER are required for the twilio channel")
		}
		return validateHTTPURL(t.BaseURL, "TWILIO_BASE_URL")
	case ChannelWebhook:
		if c.Alert.Webhook.URL == "" {
			return fmt.Errorf("WEBHOOK_URL is required for the webhook channel")
		}
		return validateWebhookURL(c.Alert.Webhook.URL)
	default:
		return fmt.Errorf("ALERT_CHANNEL must be none, twilio or webhook, got %q", c.Alert.Channel)
	}
}

func (c *Config) validateEvents() error {
	if strings.TrimSpace(c.Events.Topic) == "" {
		return fmt.Errorf("EVENTS_TOPIC must not be empty")
	}
	if c.Events.NATSURL != "" {
		if err := validateNATSURL(c.Events.NATSURL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters when set")
	}
	if c.Security.RateLimitReqs < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative")
	}
	if c.Security.RateLimitReqs > 0 && c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console; got %q", c.Logging.Format)
	}
	return nil
}
