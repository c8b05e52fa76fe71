// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package alert

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/tidewatch/internal/config"
)

// defaultWebhookInterval spaces consecutive webhook posts.
const defaultWebhookInterval = 500 * time.Millisecond

// WebhookPayload is the JSON body posted to the webhook.
type WebhookPayload struct {
	EventType   string    `json:"event_type"`
	Destination string    `json:"destination"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
}

// WebhookDispatcher posts alerts as JSON to a fixed URL.
type WebhookDispatcher struct {
	url     string
	headers map[string]string
	client  *http.Client
	limiter *rate.Limiter
}

// NewWebhookDispatcher requires a URL.
func NewWebhookDispatcher(cfg config.WebhookConfig, timeout time.Duration) (*WebhookDispatcher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: webhook url missing", ErrNotConfigured)
	}
	interval := time.Duration(cfg.RateLimitMs) * time.Millisecond
	if interval <= 0 {
		interval = defaultWebhookInterval
	}
	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return &WebhookDispatcher{
		url:     cfg.URL,
		headers: headers,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

// Name returns "webhook".
func (d *WebhookDispatcher) Name() string { return config.ChannelWebhook }

// Send waits for the rate limiter, then posts once. Status >= 300 is ErrDelivery.
func (d *WebhookDispatcher) Send(ctx context.Context, destination, message string) (DeliveryResult, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return DeliveryResult{}, fmt.Errorf("%w: webhook rate limit: %w", ErrDelivery, err)
	}

	now := time.Now().UTC()
	body, err := json.Marshal(WebhookPayload{
		EventType:   "anomaly_alert",
		Destination: destination,
		Message:     message,
		Timestamp:   now,
		Source:      "tidewatch",
	})
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("%w: marshal webhook payload: %v", ErrDelivery, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("%w: build webhook request: %v", ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range d.headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("%w: webhook request: %w", ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return DeliveryResult{}, fmt.Errorf("%w: webhook returned status %d", ErrDelivery, resp.StatusCode)
	}
	return DeliveryResult{
		Channel:     d.Name(),
		Destination: destination,
		Status:      fmt.Sprintf("%d", resp.StatusCode),
		SentAt:      now,
	}, nil
}
