// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package models

// DefaultPageSize and MaxPageSize bound paginated queries.
const (
	DefaultPageSize = 20
	MaxPageSize     = 500
)

// Page is one page of a paginated result. Page numbers start at 1.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"currentPage"`
	PageSize int `json:"pageSize"`
}

// TotalPages returns the number of pages needed for Total items.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// NormalizePage clamps page and pageSize to usable values and returns the
// row offset of the first item.
func NormalizePage(page, pageSize int) (normPage, normSize, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize, (page - 1) * pageSize
}
