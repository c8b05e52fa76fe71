// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

/*
Package websocket serves the live anomaly feed at GET /api/v1/ws.

Components:

  - Hub: owns the set of connected clients and fans out broadcasts. Runs under
    the supervisor via Serve and closes every client on shutdown.
  - Client: one gorilla/websocket connection with a read pump (answers
    application-level pings) and a write pump (heartbeats, outbound JSON).
  - Forwarder: subscribes to the event bus and broadcasts each decoded
    anomaly to the hub.
  - Handler: the HTTP upgrade endpoint with Origin checking.

Message format:

	{"type": "anomaly", "data": { ...models.Anomaly... }}

A client whose send buffer is full is dropped rather than allowed to stall the
broadcast loop.
*/
package websocket
