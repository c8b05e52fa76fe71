// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package alert

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tidewatch/internal/config"
)

// DefaultTwilioURL is the Twilio REST API root.
const DefaultTwilioURL = "https://api.twilio.com"

// TwilioDispatcher sends SMS through the Twilio Messages resource.
type TwilioDispatcher struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

type twilioMessage struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewTwilioDispatcher requires an account SID, an auth token and a sender number.
func NewTwilioDispatcher(cfg config.TwilioConfig, timeout time.Duration) (*TwilioDispatcher, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("%w: twilio credentials missing", ErrNotConfigured)
	}
	if cfg.FromNumber == "" {
		return nil, fmt.Errorf("%w: twilio phone number not defined", ErrNotConfigured)
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultTwilioURL
	}
	return &TwilioDispatcher{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		baseURL:    strings.TrimRight(base, "/"),
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// Name returns "twilio".
func (d *TwilioDispatcher) Name() string { return config.ChannelTwilio }

// Send posts one message. Any non-2xx answer is ErrDelivery.
func (d *TwilioDispatcher) Send(ctx context.Context, destination, message string) (DeliveryResult, error) {
	form := url.Values{}
	form.Set("To", destination)
	form.Set("From", d.from)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", d.baseURL, url.PathEscape(d.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("%w: build twilio request: %v", ErrDelivery, err)
	}
	req.SetBasicAuth(d.accountSID, d.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("%w: twilio request: %w", ErrDelivery, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("%w: read twilio response: %v", ErrDelivery, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var terr twilioError
		if json.Unmarshal(body, &terr) == nil && terr.Message != "" {
			return DeliveryResult{}, fmt.Errorf("%w: twilio status %d code %d: %s", ErrDelivery, resp.StatusCode, terr.Code, terr.Message)
		}
		return DeliveryResult{}, fmt.Errorf("%w: twilio status %d", ErrDelivery, resp.StatusCode)
	}

	var msg twilioMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return DeliveryResult{}, fmt.Errorf("%w: decode twilio response: %v", ErrDelivery, err)
	}
	if msg.Status == "failed" || msg.Status == "undelivered" {
		return DeliveryResult{}, fmt.Errorf("%w: twilio message %s %s: %s", ErrDelivery, msg.SID, msg.Status, msg.ErrorMessage)
	}

	return DeliveryResult{
		Channel:     d.Name(),
		Destination: destination,
		ProviderID:  msg.SID,
		Status:      msg.Status,
		SentAt:      time.Now().UTC(),
	}, nil
}
