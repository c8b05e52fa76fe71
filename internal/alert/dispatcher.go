// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/tidewatch/internal/config"
)

// DeliveryResult describes an accepted message.
type DeliveryResult struct {
	Channel     string    `json:"channel"`
	Destination string    `json:"destination"`
	ProviderID  string    `json:"providerId,omitempty"`
	Status      string    `json:"status"`
	SentAt      time.Time `json:"sentAt"`
}

// Dispatcher sends one message to one destination. Implementations do not retry.
type Dispatcher interface {
	Send(ctx context.Context, destination, message string) (DeliveryResult, error)
	Name() string
}

// defaultTimeout bounds a single delivery attempt.
const defaultTimeout = 10 * time.Second

// NewDispatcher builds the dispatcher for cfg.Channel. The "none" channel
// returns a nil Dispatcher and no error.
func NewDispatcher(cfg config.AlertConfig) (Dispatcher, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	switch cfg.Channel {
	case "", config.ChannelNone:
		return nil, nil
	case config.ChannelTwilio:
		return NewTwilioDispatcher(cfg.Twilio, timeout)
	case config.ChannelWebhook:
		return NewWebhookDispatcher(cfg.Webhook, timeout)
	default:
		return nil, fmt.Errorf("%w: unknown channel %q", ErrNotConfigured, cfg.Channel)
	}
}
