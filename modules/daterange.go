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

	"github.com/quarrylabs/quarry/apperr"
	"github.com/quarrylabs/quarry/repository"
	"github.com/quarrylabs/quarry/types"
)

// DateRange implements queries over the creation and update timestamps,
// including business-day filtering computed in Go.
type DateRange[T any] struct {
	repo repository.Repository[T]
}

// NewDateRange builds the date-range module for one entity type.
func NewDateRange[T any](repo repository.Repository[T]) *DateRange[T] {
	return &DateRange[T]{repo: repo}
}

// CreatedBetween returns entities created in [from, to], ordered by creation
// time ascending.
func (m *DateRange[T]) CreatedBetween(ctx context.Context, from, to time.Time, skip, limit int) ([]*T, error) {
	if err := checkBounds(m.repo.EntityName(), "created_between", skip, limit); err != nil {
		return nil, err
	}
	// A criteria map carries one condition per field, so the two bounds on
	// created_at go through the builder directly.
	entities := make([]*T, 0)
	err := m.repo.NewSelect().
		Model(&entities).
		Where("created_at >= ?", from).
		Where("created_at <= ?", to).
		Order("created_at ASC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, apperr.Translate(err, "created_between", m.repo.EntityName(), nil)
	}
	return entities, nil
}

// UpdatedSince returns entities whose update timestamp is at or after the
// given time, most recently updated first.
func (m *DateRange[T]) UpdatedSince(ctx context.Context, since time.Time, skip, limit int) ([]*T, error) {
	if err := checkBounds(m.repo.EntityName(), "updated_since", skip, limit); err != nil {
		return nil, err
	}
	return m.repo.FindByCriteria(ctx,
		types.Criteria{"updated_at": types.Condition{Op: types.OpGte, Value: since}},
		skip, limit, "updated_at DESC")
}

// CreatedOnBusinessDays returns entities created in [from, to] whose creation
// day is a business day. The calendar computation is independent of the
// store, so the range is fetched and filtered in Go.
func (m *DateRange[T]) CreatedOnBusinessDays(ctx context.Context, from, to time.Time, holidays Holidays) ([]*T, error) {
	entities := make([]*T, 0)
	err := m.repo.NewSelect().
		Model(&entities).
		Where("created_at >= ?", from).
		Where("created_at <= ?", to).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperr.Translate(err, "created_on_business_days", m.repo.EntityName(), nil)
	}

	db := m.repo.Session().DB()
	filtered := make([]*T, 0, len(entities))
	for _, entity := range entities {
		createdAt, ok := fieldTime(db, entity, "created_at")
		if !ok {
			continue
		}
		if IsBusinessDay(createdAt, holidays) {
			filtered = append(filtered, entity)
		}
	}
	return filtered, nil
}
