// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package models

import (
	"time"
)

// APIResponse is the envelope every admin API endpoint responds with.
//
// Status is "success" or "error". On error, Error is populated and Data is nil.
//
//	{
//	  "status": "success",
//	  "data": {"items": [...], "total": 42},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginatedResponse is the data payload of list endpoints.
type PaginatedResponse struct {
	Items       interface{} `json:"items"`
	Total       int         `json:"total"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	PageSize    int         `json:"pageSize"`
}

// NewPaginatedResponse wraps a Page into the list payload.
func NewPaginatedResponse[T any](p Page[T]) PaginatedResponse {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return PaginatedResponse{
		Items:       items,
		Total:       p.Total,
		TotalPages:  p.TotalPages(),
		CurrentPage: p.Page,
		PageSize:    p.PageSize,
	}
}
