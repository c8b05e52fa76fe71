// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package supervisor

import (
	"log/slog"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/tidewatch/internal/logging"
)

// Components are the supervised parts of a running pipeline. Leave a field
// nil when the component is disabled; never assign a typed nil pointer.
type Components struct {
	// data layer
	Compactor suture.Service

	// messaging layer
	Poller    suture.Service
	Hub       suture.Service
	Forwarder suture.Service

	// api layer
	HTTP suture.Service
}

// Build creates a tree and places each non-nil component in its layer.
func Build(logger *slog.Logger, config TreeConfig, c Components) (*Tree, error) {
	tree, err := NewTree(logger, config)
	if err != nil {
		return nil, err
	}

	if c.Compactor != nil {
		tree.AddDataService(c.Compactor)
	}
	// The hub starts before its producers so early broadcasts are queued.
	for _, svc := range []suture.Service{c.Hub, c.Forwarder, c.Poller} {
		if svc != nil {
			tree.AddMessagingService(svc)
		}
	}
	if c.HTTP != nil {
		tree.AddAPIService(c.HTTP)
	}

	logging.Info().
		Strs("data", tree.Services(DataLayer)).
		Strs("messaging", tree.Services(MessagingLayer)).
		Strs("api", tree.Services(APILayer)).
		Msg("Supervisor tree built")
	return tree, nil
}
