// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

// Command tidewatch polls a vessel position provider for every active
// monitoring zone, tracks vessels, flags anomalies (signal loss, track
// deviation, zone incursion) and serves the admin API.
//
// # Startup
//
//  1. Configuration: koanf defaults, optional config.yaml, environment
//  2. Logging: zerolog, level and format from configuration
//  3. Stores: in-memory, or DuckDB (zones, anomalies) plus Badger (vessels)
//  4. Event bus: in-process gochannel, or NATS when EVENTS_NATS_URL is set
//  5. Detection engine publishing each persisted anomaly on the bus
//  6. Poller, WebSocket hub and forwarder, admin API
//  7. Supervisor tree (data, messaging, api layers)
//
// # Flags
//
//	-issue-token <subject>   print an operator JWT and exit
//	-token-ttl <duration>    lifetime of the issued token (default 24h)
//	-version                 print the version and exit
//
// # Example
//
//	export DATALASTIC_API_KEY=...
//	export STORAGE_BACKEND=persistent
//	export JWT_SECRET=$(openssl rand -base64 32)
//	./tidewatch
//
// SIGINT and SIGTERM cancel the tree; services get server.shutdown_timeout
// to stop before stores are flushed and closed.
package main
