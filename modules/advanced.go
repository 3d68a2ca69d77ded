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
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"github.com/quarrylabs/quarry/apperr"
	"github.com/quarrylabs/quarry/repository"
	"github.com/quarrylabs/quarry/types"
)

// AdvancedQuery implements multi-criteria filtering, relation-eager fetches,
// fuzzy text search, and counting.
type AdvancedQuery[T any] struct {
	repo         repository.Repository[T]
	relations    []string
	searchFields []string
}

// NewAdvancedQuery builds the advanced query module. relations are Bun
// relation names eager-loaded by GetWithRelations.
func NewAdvancedQuery[T any](repo repository.Repository[T], relations, searchFields []string) *AdvancedQuery[T] {
	return &AdvancedQuery[T]{repo: repo, relations: relations, searchFields: searchFields}
}

// Filter returns entities matching all criteria. Unknown criteria operators
// surface as BusinessLogic errors from the repository core.
func (m *AdvancedQuery[T]) Filter(ctx context.Context, criteria types.Criteria, skip, limit int, orderBy ...string) ([]*T, error) {
	if err := checkBounds(m.repo.EntityName(), "filter", skip, limit); err != nil {
		return nil, err
	}
	return m.repo.FindByCriteria(ctx, criteria, skip, limit, orderBy...)
}

// FilterCount counts entities matching all criteria without materializing
// them.
func (m *AdvancedQuery[T]) FilterCount(ctx context.Context, criteria types.Criteria) (int, error) {
	return m.repo.Count(ctx, criteria)
}

// GetWithRelations fetches the entity with its declared relations loaded, or
// NotFound.
func (m *AdvancedQuery[T]) GetWithRelations(ctx context.Context, id interface{}) (*T, error) {
	var entity T
	q := m.repo.NewSelect().Model(&entity).Where("?TableAlias.id = ?", id)
	for _, relation := range m.relations {
		q = q.Relation(relation)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("get_with_relations", m.repo.EntityName(), id)
		}
		return nil, apperr.Translate(err, "get_with_relations", m.repo.EntityName(), id)
	}
	return &entity, nil
}

// FuzzySearch splits the term on whitespace; every token must match at least
// one search field as a substring.
func (m *AdvancedQuery[T]) FuzzySearch(ctx context.Context, term string, skip, limit int) ([]*T, error) {
	if err := checkBounds(m.repo.EntityName(), "fuzzy_search", skip, limit); err != nil {
		return nil, err
	}
	if len(m.searchFields) == 0 {
		return nil, apperr.BusinessLogic("fuzzy_search", m.repo.EntityName(), "no search fields declared")
	}
	tokens := strings.Fields(term)
	if len(tokens) == 0 {
		return make([]*T, 0), nil
	}

	entities := make([]*T, 0)
	q := m.repo.NewSelect().Model(&entities)
	for _, token := range tokens {
		like := "%" + token + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, field := range m.searchFields {
				q = q.WhereOr("? LIKE ?", bun.Ident(field), like)
			}
			return q
		})
	}
	err := q.Order("id ASC").Offset(skip).Limit(limit).Scan(ctx)
	if err != nil {
		return nil, apperr.Translate(err, "fuzzy_search", m.repo.EntityName(), nil)
	}
	return entities, nil
}
