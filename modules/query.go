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
	"fmt"

	"github.com/uptrace/bun"

	"github.com/quarrylabs/quarry/apperr"
	"github.com/quarrylabs/quarry/repository"
	"github.com/quarrylabs/quarry/types"
)

// Query implements lookups by unique fields, pattern search, and paginated
// listing.
type Query[T any] struct {
	repo         repository.Repository[T]
	searchFields []string
}

// NewQuery builds the query module. searchFields are the columns scanned by
// Search.
func NewQuery[T any](repo repository.Repository[T], searchFields []string) *Query[T] {
	return &Query[T]{repo: repo, searchFields: searchFields}
}

// GetByID returns the entity or a NotFound error; absence stops being a plain
// value at this layer.
func (m *Query[T]) GetByID(ctx context.Context, id interface{}) (*T, error) {
	entity, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, apperr.NotFound("get_by_id", m.repo.EntityName(), id)
	}
	return entity, nil
}

// Lookup returns the first entity whose field equals value, or NotFound.
func (m *Query[T]) Lookup(ctx context.Context, field string, value interface{}) (*T, error) {
	matches, err := m.repo.FindByCriteria(ctx, types.Where(field, value), 0, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, apperr.NotFound("lookup", m.repo.EntityName(), nil)
	}
	return matches[0], nil
}

// List returns a page of entities ordered by id. Pagination bounds are this
// module's contract: skip must be >= 0 and limit > 0.
func (m *Query[T]) List(ctx context.Context, skip, limit int) ([]*T, error) {
	if err := checkBounds(m.repo.EntityName(), "list", skip, limit); err != nil {
		return nil, err
	}
	return m.repo.GetAll(ctx, skip, limit)
}

// ListPage returns entities plus the total match count.
func (m *Query[T]) ListPage(ctx context.Context, page *types.PageRequest) (*types.Page[T], error) {
	return m.repo.Page(ctx, page)
}

// Search matches the pattern as a substring against any of the declared
// search fields.
func (m *Query[T]) Search(ctx context.Context, pattern string, skip, limit int) ([]*T, error) {
	if err := checkBounds(m.repo.EntityName(), "search", skip, limit); err != nil {
		return nil, err
	}
	if len(m.searchFields) == 0 {
		return nil, apperr.BusinessLogic("search", m.repo.EntityName(), "no search fields declared")
	}

	entities := make([]*T, 0)
	like := "%" + pattern + "%"
	err := m.repo.NewSelect().
		Model(&entities).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, field := range m.searchFields {
				q = q.WhereOr("? LIKE ?", bun.Ident(field), like)
			}
			return q
		}).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, apperr.Translate(err, "search", m.repo.EntityName(), nil)
	}
	return entities, nil
}

func checkBounds(entity, op string, skip, limit int) error {
	if skip < 0 {
		return apperr.BusinessLogic(op, entity, fmt.Sprintf("skip must be >= 0, got %d", skip))
	}
	if limit <= 0 {
		return apperr.BusinessLogic(op, entity, fmt.Sprintf("limit must be > 0, got %d", limit))
	}
	return nil
}
