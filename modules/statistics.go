/*
 * Copyright 2026 quarrylabs.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package modules

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/quarrylabs/quarry/apperr"
	"github.com/quarrylabs/quarry/repository"
)

// FieldCount is one grouped aggregation row.
type FieldCount struct {
	Key   string `bun:"key"`
	Count int    `bun:"count"`
}

// DayCount is one time-bucketed aggregation row; Day is YYYY-MM-DD.
type DayCount struct {
	Day   string `bun:"day"`
	Count int    `bun:"count"`
}

// Statistics implements read-only aggregation. It never mutates state and
// returns zeroed structures for empty datasets.
type Statistics[T any] struct {
	repo repository.Repository[T]
}

// NewStatistics builds the statistics module for one entity type.
func NewStatistics[T any](repo repository.Repository[T]) *Statistics[T] {
	return &Statistics[T]{repo: repo}
}

// CountAll counts every entity.
func (m *Statistics[T]) CountAll(ctx context.Context) (int, error) {
	return m.repo.Count(ctx, nil)
}

// CountBy groups entities by the given column and counts each group.
func (m *Statistics[T]) CountBy(ctx context.Context, field string) (map[string]int, error) {
	var model T
	rows := make([]FieldCount, 0)
	err := m.repo.NewSelect().
		Model(&model).
		ColumnExpr("? AS key", bun.Ident(field)).
		ColumnExpr("count(*) AS count").
		GroupExpr("?", bun.Ident(field)).
		Scan(ctx, &rows)
	if err != nil {
		return nil, apperr.Translate(err, "count_by", m.repo.EntityName(), nil)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// CreatedPerDay buckets creations since the given time by calendar day,
// ascending. Days with no creations are absent from the result.
func (m *Statistics[T]) CreatedPerDay(ctx context.Context, since time.Time) ([]DayCount, error) {
	var model T
	rows := make([]DayCount, 0)
	err := m.repo.NewSelect().
		Model(&model).
		ColumnExpr("date(created_at) AS day").
		ColumnExpr("count(*) AS count").
		Where("created_at >= ?", since).
		GroupExpr("date(created_at)").
		OrderExpr("day ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, apperr.Translate(err, "created_per_day", m.repo.EntityName(), nil)
	}
	return rows, nil
}

// TopBy returns the n most frequent values of the given column, descending.
func (m *Statistics[T]) TopBy(ctx context.Context, field string, n int) ([]FieldCount, error) {
	if n <= 0 {
		return nil, apperr.BusinessLogic("top_by", m.repo.EntityName(), "n must be > 0")
	}
	var model T
	rows := make([]FieldCount, 0)
	err := m.repo.NewSelect().
		Model(&model).
		ColumnExpr("? AS key", bun.Ident(field)).
		ColumnExpr("count(*) AS count").
		GroupExpr("?", bun.Ident(field)).
		OrderExpr("count DESC").
		Limit(n).
		Scan(ctx, &rows)
	if err != nil {
		return nil, apperr.Translate(err, "top_by", m.repo.EntityName(), nil)
	}
	return rows, nil
}
