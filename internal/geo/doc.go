// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

/*
Package geo provides the spherical geometry used by the polling and
detection pipeline.

It covers three needs:

  - Query scoping: BoundingBox derives a padded lat/lon rectangle from a
    zone polygon so feed providers are only asked for nearby traffic.
  - Containment: Contains runs an even-odd ray cast over a [lon, lat] ring.
  - Distance: HaversineNM and PointToPathDistanceNM measure great-circle
    distances in nautical miles on a spherical Earth.

Polygons use GeoJSON vertex order ([lon, lat]) everywhere. Points use the
named Point struct to avoid mixing the two orders.

The model is a sphere of radius EarthRadiusNM. Errors against the WGS84
ellipsoid are well under one percent, which is adequate for the fixed
detection thresholds.
*/
package geo
