// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package query

import (
	"strings"
	"time"
)

// WhereBuilder accumulates AND-joined conditions and their arguments.
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("kind", "ZONE_INCURSION")
//	wb.AddTimeRange("detected_at", from, to)
//	where, args := wb.BuildWithPrefix()
//	// WHERE kind = ? AND detected_at >= ? AND detected_at <= ?
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?".
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	return wb.AddClause(column+" = ?", value)
}

// AddTimeRange adds inclusive bounds on column. Nil bounds are skipped.
func (wb *WhereBuilder) AddTimeRange(column string, from, to *time.Time) *WhereBuilder {
	if from != nil {
		wb.AddClause(column+" >= ?", from.UTC())
	}
	if to != nil {
		wb.AddClause(column+" <= ?", to.UTC())
	}
	return wb
}

// Build returns the AND-joined conditions without the WHERE keyword, or
// "1=1" when nothing was added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	where, args := wb.Build()
	return "WHERE " + where, args
}

// Count returns the number of conditions added.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}
