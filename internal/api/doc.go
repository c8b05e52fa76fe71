// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

/*
Package api is the admin HTTP surface, routed with chi.

Routes (all under /api/v1):

	GET    /health/live                 liveness
	GET    /health/ready                readiness (store pings, poller state)
	GET    /health                      full status
	GET    /zones                       list zones
	POST   /zones                       create a zone
	GET    /zones/{id}                  get a zone
	PUT    /zones/{id}                  replace name/polygon/active
	DELETE /zones/{id}                  delete a zone
	GET    /vessels                     page of vessels, most recently seen first
	GET    /vessels/{mmsi}              one vessel
	GET    /vessels/{mmsi}/history      position history, oldest first
	DELETE /vessels/{mmsi}              forget a vessel
	GET    /anomalies                   filtered page of anomalies
	POST   /anomalies                   record an anomaly manually
	GET    /anomalies/{id}              one anomaly
	PUT    /anomalies/{id}              set confirmed, resolved, feedback
	DELETE /anomalies/{id}              delete an anomaly
	POST   /anomalies/{id}/alert        send an alert for the anomaly
	GET    /ws                          live anomaly feed (WebSocket)

GET /metrics serves Prometheus metrics outside the versioned prefix.

Every JSON response uses one envelope:

	{"status": "success"|"error", "data": ..., "metadata": {...}, "error": {"code", "message"}}

Store errors map to status codes: store.ErrNotFound is 404,
models.ErrValidation is 400, alert.ErrDelivery is 502, alert.ErrNotConfigured
is 503 and anything else is 500.
*/
package api
