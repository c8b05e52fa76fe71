// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

/*
Package supervisor runs the long-lived services of tidewatch under a suture v4
tree.

Services are grouped into three layers so a crash in one is restarted
without disturbing the others:

	Root ("tidewatch")
	├── data-layer
	│   └── vessel-store-compactor  (persistent backend only)
	├── messaging-layer
	│   ├── vessel-poller           (poller.enabled)
	│   ├── websocket-hub
	│   └── websocket-forwarder     (event bus -> hub)
	└── api-layer
	    └── http-server             (server.enabled)

Supervisor events (start, failure, backoff) are logged through sutureslog
using the zerolog-backed slog logger from internal/logging.

Every service implements suture.Service:

	Serve(ctx context.Context) error

and fmt.Stringer so events carry a readable name. Returning nil or an error
causes a restart subject to the failure threshold; returning after ctx is
canceled ends the service for good.
*/
package supervisor
