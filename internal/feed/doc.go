// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

/*
Package feed fetches vessel position reports for a bounding box from an
external AIS provider.

Two providers are supported, selected by feed.provider:

	datalastic    GET {base}/api/v0/vessel_pro?api-key=K&param=area&value=minLat,minLon,maxLat,maxLon
	vesselfinder  GET {base}/vessels?userkey=K&bbox=minLat,minLon,maxLat,maxLon&format=json

Decoding and normalization are separate steps. MapDatalastic and
MapVesselFinder are pure functions from the provider's record shape to
models.VesselReport; they never touch the network and can be tested with
literal records.

Every call goes through a token bucket limiter (golang.org/x/time/rate)
sized to the provider quota and, when enabled, a gobreaker circuit breaker.
Any upstream failure (transport error, timeout, non-2xx status,
undecodable body, Datalastic status other than "ok", open breaker) is
returned wrapped in ErrProvider. A missing credential is ErrConfiguration.
*/
package feed
