// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

// Package kvstore implements store.VesselStore on BadgerDB.
//
// Each vessel is one key, "vessel:<mmsi>", holding the JSON-encoded
// models.Vessel including its bounded history. An upsert reads, merges and
// writes the key in a single Badger transaction while holding the per-MMSI
// lock, so concurrent reports for one vessel never lose history points.
//
// Compactor runs Badger value log garbage collection on an interval and is
// meant to be supervised alongside the other data layer services.
package kvstore
