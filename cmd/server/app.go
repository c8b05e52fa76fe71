// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/tidewatch/internal/alert"
	"github.com/tomtom215/tidewatch/internal/api"
	"github.com/tomtom215/tidewatch/internal/auth"
	"github.com/tomtom215/tidewatch/internal/config"
	"github.com/tomtom215/tidewatch/internal/database"
	"github.com/tomtom215/tidewatch/internal/detection"
	"github.com/tomtom215/tidewatch/internal/eventbus"
	"github.com/tomtom215/tidewatch/internal/feed"
	"github.com/tomtom215/tidewatch/internal/kvstore"
	"github.com/tomtom215/tidewatch/internal/logging"
	"github.com/tomtom215/tidewatch/internal/poller"
	"github.com/tomtom215/tidewatch/internal/store"
	"github.com/tomtom215/tidewatch/internal/supervisor"
	"github.com/tomtom215/tidewatch/internal/supervisor/services"
	"github.com/tomtom215/tidewatch/internal/websocket"
)

const checkpointTimeout = 30 * time.Second

// stores groups the three collections with their backend handles.
type stores struct {
	zones     store.ZoneRegistry
	vessels   store.VesselStore
	anomalies store.AnomalyStore

	duck   *database.DB
	badger *kvstore.VesselStore
}

// app is a fully wired pipeline ready to be served.
type app struct {
	tree   *supervisor.Tree
	stores *stores
	bus    *eventbus.Bus
	engine *detection.Engine
	poller *poller.Poller
	hub    *websocket.Hub
}

func openStores(cfg config.StorageConfig) (*stores, error) {
	if cfg.Backend != config.BackendPersistent {
		logging.Info().Msg("Using in-memory stores; state is lost on restart")
		return &stores{
			zones:     store.NewMemoryZones(),
			vessels:   store.NewMemoryVessels(),
			anomalies: store.NewMemoryAnomalies(),
		}, nil
	}

	db, err := database.New(cfg.DuckDB)
	if err != nil {
		return nil, fmt.Errorf("open DuckDB: %w", err)
	}
	kv, err := kvstore.Open(cfg.Badger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open Badger: %w", err)
	}
	return &stores{
		zones:     database.NewZoneStore(db),
		vessels:   kv,
		anomalies: database.NewAnomalyStore(db),
		duck:      db,
		badger:    kv,
	}, nil
}

func (s *stores) checks() map[string]api.Pinger {
	checks := make(map[string]api.Pinger, 2)
	if s.duck != nil {
		checks["duckdb"] = s.duck
	}
	if s.badger != nil {
		checks["badger"] = s.badger
	}
	return checks
}

func (s *stores) close() {
	if s.duck != nil {
		ctx, cancel := context.WithTimeout(context.Background(), checkpointTimeout)
		if err := s.duck.Checkpoint(ctx); err != nil {
			logging.Warn().Err(err).Msg("DuckDB checkpoint failed")
		}
		cancel()
		if err := s.duck.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing DuckDB")
		}
	}
	if s.badger != nil {
		if err := s.badger.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing Badger")
		}
	}
}

// newApp wires every component from cfg. On error, anything already opened
// is closed.
func newApp(cfg *config.Config) (_ *app, err error) {
	st, err := openStores(cfg.Storage)
	if err != nil {
		return nil, err
	}
	a := &app{stores: st}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	if a.bus, err = eventbus.New(cfg.Events); err != nil {
		return nil, fmt.Errorf("event bus: %w", err)
	}
	logging.Info().Str("transport", a.bus.Transport()).Str("topic", a.bus.Topic()).Msg("Event bus ready")

	a.engine = detection.NewEngine(st.anomalies, st.vessels,
		detection.WithPublisher(a.bus),
		detection.WithDetectionConfig(cfg.Detection))

	var comps supervisor.Components

	if st.badger != nil {
		comps.Compactor = kvstore.NewCompactor(st.badger, cfg.Storage.Badger.GCInterval)
	}

	if cfg.Poller.Enabled {
		source, ferr := feed.New(cfg.Feed)
		if ferr != nil {
			return nil, fmt.Errorf("feed: %w", ferr)
		}
		a.poller = poller.New(cfg.Poller, st.zones, st.vessels, source, a.engine)
		comps.Poller = a.poller
	} else {
		logging.Warn().Msg("Poller disabled; no positions will be fetched")
	}

	a.hub = websocket.NewHub()
	comps.Hub = a.hub
	comps.Forwarder = websocket.NewForwarder(a.hub, a.bus)

	if cfg.Server.Enabled {
		comps.HTTP, err = a.httpService(cfg)
		if err != nil {
			return nil, err
		}
	}

	a.tree, err = supervisor.Build(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, comps)
	if err != nil {
		return nil, fmt.Errorf("supervisor: %w", err)
	}
	return a, nil
}

func (a *app) httpService(cfg *config.Config) (suture.Service, error) {
	dispatcher, err := alert.NewDispatcher(cfg.Alert)
	if err != nil {
		return nil, fmt.Errorf("alerts: %w", err)
	}

	deps := api.Deps{
		Zones:     a.stores.zones,
		Vessels:   a.stores.vessels,
		Anomalies: a.stores.anomalies,
		Alerts:    alert.NewService(dispatcher),
		Engine:    a.engine,
		Checks:    a.stores.checks(),
		Version:   version,
	}
	if a.poller != nil {
		deps.Poller = a.poller
	}

	opts := api.RouterOptions{Security: cfg.Security, Hub: a.hub}
	if cfg.Security.JWTSecret != "" {
		if opts.Auth, err = auth.NewJWTManager(cfg.Security); err != nil {
			return nil, fmt.Errorf("auth: %w", err)
		}
	} else {
		logging.Warn().Msg("JWT_SECRET not set; mutating API routes are unauthenticated")
	}

	router := api.NewRouter(api.NewHandler(deps), opts)
	server := services.NewHTTPServer(cfg.Server, router)
	return services.NewHTTPServerService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout), nil
}

// close releases the bus and the stores. Safe on a partially built app.
func (a *app) close() {
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing event bus")
		}
	}
	if a.stores != nil {
		a.stores.close()
	}
}
