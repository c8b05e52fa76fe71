// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

// Package query builds parameterized SQL WHERE clauses for the database
// package. Column names are always supplied by calling code, never by
// request input; values are always bound as ? parameters.
package query
