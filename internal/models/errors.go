// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package models

import "errors"

// ErrValidation is returned when a domain value violates one of its invariants
// (malformed zone polygon, report without identifier or position, unknown kind).
// Callers match it with errors.Is.
var ErrValidation = errors.New("validation error")
