// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package alert

import "errors"

var (
	// ErrDelivery means the dispatcher could not hand the message off.
	ErrDelivery = errors.New("alert delivery failed")

	// ErrNotConfigured means no alert channel is configured.
	ErrNotConfigured = errors.New("alert channel not configured")
)
