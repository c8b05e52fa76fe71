// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/tidewatch/internal/alert"
	"github.com/tomtom215/tidewatch/internal/detection"
	"github.com/tomtom215/tidewatch/internal/poller"
	"github.com/tomtom215/tidewatch/internal/store"
)

// PollerStatus is the read side of the poller exposed on /health.
type PollerStatus interface {
	State() poller.State
	Passes() int64
	LastPass() *poller.PassResult
}

// EngineStatus is the read side of the detection engine.
type EngineStatus interface {
	Stats() detection.Stats
}

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Deps are the collaborators of Handler. Zones, Vessels and Anomalies are
// required; the rest may be nil.
type Deps struct {
	Zones     store.ZoneRegistry
	Vessels   store.VesselStore
	Anomalies store.AnomalyStore
	Alerts    *alert.Service
	Poller    PollerStatus
	Engine    EngineStatus
	// Checks are pinged by /health/ready, keyed by component name.
	Checks  map[string]Pinger
	Version string
}

// Handler serves the admin API.
type Handler struct {
	zones     store.ZoneRegistry
	vessels   store.VesselStore
	anomalies store.AnomalyStore
	alerts    *alert.Service
	poller    PollerStatus
	engine    EngineStatus
	checks    map[string]Pinger
	version   string

	startTime time.Time
	now       func() time.Time
}

// NewHandler builds a Handler from deps.
func NewHandler(deps Deps) *Handler {
	alerts := deps.Alerts
	if alerts == nil {
		alerts = alert.NewService(nil)
	}
	return &Handler{
		zones:     deps.Zones,
		vessels:   deps.Vessels,
		anomalies: deps.Anomalies,
		alerts:    alerts,
		poller:    deps.Poller,
		engine:    deps.Engine,
		checks:    deps.Checks,
		version:   deps.Version,
		startTime: time.Now(),
		now:       time.Now,
	}
}
