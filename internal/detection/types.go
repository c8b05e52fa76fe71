// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package detection

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/tidewatch/internal/models"
)

// Fixed detection thresholds.
const (
	SignalLossSilence    = 30 * time.Minute
	SignalLossTrackStart = 24 * time.Hour
	DeviationThresholdNM = 5.0
	MinTrackPoints       = 3
)

// ErrPersist wraps an anomaly store failure during evaluation.
var ErrPersist = errors.New("anomaly persistence failed")

// Detector checks a single vessel. A nil anomaly with a nil error means the
// vessel is not anomalous.
type Detector interface {
	Kind() models.AnomalyKind
	Check(ctx context.Context, v *models.Vessel, zones []models.Zone, now time.Time) (*models.Anomaly, error)
}

// Publisher receives every persisted anomaly.
type Publisher interface {
	PublishAnomaly(ctx context.Context, a *models.Anomaly) error
}
