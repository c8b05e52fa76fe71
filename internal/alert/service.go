// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/tidewatch/internal/logging"
	"github.com/tomtom215/tidewatch/internal/metrics"
	"github.com/tomtom215/tidewatch/internal/models"
)

// Service renders and sends anomaly alerts.
type Service struct {
	dispatcher Dispatcher
}

// NewService wraps d. A nil dispatcher yields ErrNotConfigured on every send.
func NewService(d Dispatcher) *Service {
	return &Service{dispatcher: d}
}

// Configured reports whether a dispatcher is present.
func (s *Service) Configured() bool {
	return s.dispatcher != nil
}

// SendAnomalyAlert renders a and delivers it to destination once.
func (s *Service) SendAnomalyAlert(ctx context.Context, a *models.Anomaly, destination string) (DeliveryResult, error) {
	if s.dispatcher == nil {
		return DeliveryResult{}, ErrNotConfigured
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return DeliveryResult{}, fmt.Errorf("%w: destination is required", models.ErrValidation)
	}

	channel := s.dispatcher.Name()
	res, err := s.dispatcher.Send(ctx, destination, RenderMessage(a))
	metrics.RecordAlert(channel, err)
	if err != nil {
		if !errors.Is(err, ErrDelivery) {
			err = fmt.Errorf("%w: %w", ErrDelivery, err)
		}
		logging.Ctx(ctx).Warn().Err(err).Str("anomaly_id", a.ID).Str("channel", channel).Msg("Alert delivery failed")
		return DeliveryResult{}, err
	}

	logging.Ctx(ctx).Info().
		Str("anomaly_id", a.ID).
		Str("channel", channel).
		Str("provider_id", res.ProviderID).
		Msg("Alert sent")
	return res, nil
}
