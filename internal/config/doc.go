// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

/*
Package config loads Tidewatch configuration with Koanf v2.

Sources are layered, later ones overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, else the first of config.yaml,
    config.yml, /etc/tidewatch/config.yaml, /etc/tidewatch/config.yml
 3. Environment variables listed in envMappings

Only mapped environment variables are read. Comma-separated values are
split for slice fields (CORS_ORIGINS) and key=value lists are parsed for map
fields (WEBHOOK_HEADERS).

Example YAML:

	feed:
	  provider: vesselfinder
	  api_key: secret
	poller:
	  interval: 30s
	storage:
	  backend: persistent
	  duckdb:
	    path: /data/tidewatch.duckdb
	  badger:
	    path: /data/vessels
	alert:
	  channel: twilio
	  twilio:
	    account_sid: AC123
	    auth_token: token
	    from_number: "+15550100"

Commonly set environment variables:

	DATALASTIC_API_KEY    feed credential (also VESSELFINDER_API_KEY, FEED_API_KEY)
	FEED_PROVIDER         datalastic | vesselfinder
	POLL_INTERVAL         poll cadence, e.g. 30s
	STORAGE_BACKEND       memory | persistent
	ALERT_CHANNEL         none | twilio | webhook
	NATS_URL              external NATS server for anomaly events
	JWT_SECRET            enables auth on mutating API routes
	LOG_LEVEL, LOG_FORMAT logging
*/
package config
