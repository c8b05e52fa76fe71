// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package detection

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tomtom215/tidewatch/internal/config"
	"github.com/tomtom215/tidewatch/internal/logging"
	"github.com/tomtom215/tidewatch/internal/metrics"
	"github.com/tomtom215/tidewatch/internal/models"
	"github.com/tomtom215/tidewatch/internal/store"
)

// Engine runs the detectors and persists what they find.
type Engine struct {
	anomalies  store.AnomalyStore
	vessels    store.VesselStore
	detectors  []Detector
	signalLoss *SignalLossDetector
	publisher  Publisher
	now        func() time.Time

	stats engineStats
}

type engineStats struct {
	evaluated atomic.Int64
	detected  atomic.Int64
	errors    atomic.Int64
	lastSweep atomic.Int64 // unix nanos
}

// Stats is a snapshot of engine counters.
type Stats struct {
	VesselsEvaluated int64     `json:"vesselsEvaluated"`
	AnomaliesFound   int64     `json:"anomaliesFound"`
	DetectorErrors   int64     `json:"detectorErrors"`
	LastSweep        time.Time `json:"lastSweep,omitempty"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithPublisher forwards persisted anomalies to p.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithClock overrides time.Now for Evaluate.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDetectionConfig enables only the detectors cfg turns on.
func WithDetectionConfig(cfg config.DetectionConfig) Option {
	return func(e *Engine) {
		e.detectors = e.detectors[:0]
		if cfg.TrackDeviationEnabled {
			e.detectors = append(e.detectors, TrackDeviationDetector{})
		}
		if cfg.ZoneIncursionEnabled {
			e.detectors = append(e.detectors, ZoneIncursionDetector{})
		}
		if !cfg.SignalLossEnabled {
			e.signalLoss = nil
		}
	}
}

// WithDetectors replaces the vessel-scoped detectors.
func WithDetectors(ds ...Detector) Option {
	return func(e *Engine) { e.detectors = ds }
}

// NewEngine returns an engine with every detector enabled.
func NewEngine(anomalies store.AnomalyStore, vessels store.VesselStore, opts ...Option) *Engine {
	e := &Engine{
		anomalies:  anomalies,
		vessels:    vessels,
		detectors:  []Detector{TrackDeviationDetector{}, ZoneIncursionDetector{}},
		signalLoss: &SignalLossDetector{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the vessel-scoped detectors over vessels and persists each
// finding immediately. The returned slice holds everything persisted before
// any ErrPersist.
func (e *Engine) Evaluate(ctx context.Context, vessels []*models.Vessel, zones []models.Zone) ([]*models.Anomaly, error) {
	now := e.now()
	var found []*models.Anomaly

	for _, v := range vessels {
		if v == nil {
			continue
		}
		e.stats.evaluated.Add(1)
		for _, d := range e.detectors {
			a, err := d.Check(ctx, v, zones, now)
			if err != nil {
				e.detectorFailed(ctx, d.Kind(), v.MMSI, err)
				continue
			}
			if a == nil {
				continue
			}
			if err := e.persist(ctx, a); err != nil {
				return found, err
			}
			found = append(found, a)
		}
	}
	return found, nil
}

// SweepSignalLoss checks every vessel last seen inside the signal-loss window.
// It is a no-op when the detector is disabled.
func (e *Engine) SweepSignalLoss(ctx context.Context, now time.Time) ([]*models.Anomaly, error) {
	if e.signalLoss == nil {
		return nil, nil
	}
	after, before := e.signalLoss.Window(now)
	candidates, err := e.vessels.ListSeenBetween(ctx, after, before)
	if err != nil {
		return nil, fmt.Errorf("list silent vessels: %w", err)
	}
	e.stats.lastSweep.Store(now.UnixNano())

	var found []*models.Anomaly
	for i := range candidates {
		v := &candidates[i]
		a, err := e.signalLoss.Check(ctx, v, nil, now)
		if err != nil {
			e.detectorFailed(ctx, models.KindSignalLoss, v.MMSI, err)
			continue
		}
		if a == nil {
			continue
		}
		if err := e.persist(ctx, a); err != nil {
			return found, err
		}
		found = append(found, a)
	}

	if len(found) > 0 {
		logging.Ctx(ctx).Info().
			Int("candidates", len(candidates)).
			Int("flagged", len(found)).
			Msg("Signal loss sweep flagged vessels")
	}
	return found, nil
}

// Stats returns the engine counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		VesselsEvaluated: e.stats.evaluated.Load(),
		AnomaliesFound:   e.stats.detected.Load(),
		DetectorErrors:   e.stats.errors.Load(),
	}
	if ns := e.stats.lastSweep.Load(); ns != 0 {
		s.LastSweep = time.Unix(0, ns).UTC()
	}
	return s
}

func (e *Engine) persist(ctx context.Context, a *models.Anomaly) error {
	if err := e.anomalies.Insert(ctx, a); err != nil {
		return fmt.Errorf("%w: insert %s for %s: %w", ErrPersist, a.Kind, a.MMSI, err)
	}
	e.stats.detected.Add(1)
	metrics.AnomaliesDetected.WithLabelValues(string(a.Kind)).Inc()

	logging.Ctx(ctx).Info().
		Str("anomaly_id", a.ID).
		Str("kind", string(a.Kind)).
		Str("mmsi", a.MMSI).
		Float64("lat", a.Location.Lat).
		Float64("lon", a.Location.Lon).
		Msg("Anomaly detected")

	if e.publisher != nil {
		if err := e.publisher.PublishAnomaly(ctx, a); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("anomaly_id", a.ID).Msg("Failed to publish anomaly event")
		}
	}
	return nil
}

func (e *Engine) detectorFailed(ctx context.Context, kind models.AnomalyKind, mmsi string, err error) {
	e.stats.errors.Add(1)
	metrics.DetectorErrors.WithLabelValues(string(kind)).Inc()
	logging.Ctx(ctx).Warn().Err(err).Str("kind", string(kind)).Str("mmsi", mmsi).Msg("Detector failed")
}
