// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package feed

import (
	"errors"
	"io"
)

var (
	// ErrConfiguration means the adapter cannot be used as configured,
	// typically because no credential was supplied.
	ErrConfiguration = errors.New("feed configuration error")

	// ErrProvider means the upstream provider failed or returned data that
	// could not be understood.
	ErrProvider = errors.New("feed provider error")
)

// maxErrorBodySize caps how much of a failed response body ends up in an error.
const maxErrorBodySize = 512

func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	if len(body) == maxErrorBodySize {
		return string(body) + "... (truncated)"
	}
	return string(body)
}
