// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

// Package validation validates API request structs with go-playground/validator.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Field names in messages are taken
// from json tags so they match what the client sent.
//
// Custom tags:
//
//	mmsi         nine ASCII digits
//	anomalykind  one of the models.AnomalyKind values (case-insensitive)
//
// Example:
//
//	type alertRequest struct {
//	    Destination string `json:"destination" validate:"required,max=256"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    return verr // errors.Is(verr, models.ErrValidation) == true
//	}
package validation
