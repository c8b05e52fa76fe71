// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

/*
Package models defines the domain types shared across Tidewatch.

Key Components:

  - Vessel: tracked vessel state with a bounded, ordered position history
  - VesselReport: one normalized position report from a feed provider
  - Zone: named polygonal monitoring area with an active flag
  - Anomaly: persisted detection finding with kind-specific details
  - BoundingBox: lat/lon rectangle used to scope provider queries
  - Page: generic paginated result
  - APIResponse: admin API response envelope

Invariants are enforced by constructors (NewVessel, NewZone, NewAnomaly) and
by Vessel.Apply, which appends to history and evicts the oldest point once
MaxHistory is exceeded. Violations are reported as ErrValidation.
*/
package models
