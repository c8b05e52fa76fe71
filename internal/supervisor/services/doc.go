// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

// Package services adapts components without a context-aware Serve method
// to suture.Service. The poller, hub, forwarder and compactor already
// implement it and are added to the tree directly.
package services
