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

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/uptrace/bun"

	"github.com/quarrylabs/quarry/apperr"
	"github.com/quarrylabs/quarry/database"
	"github.com/quarrylabs/quarry/types"
)

type baseRepository[T any] struct {
	session *database.Session
	entity  string
}

// NewRepository returns a generic repository bound to the given session. The
// repository does not own the session; its lifetime is the caller's unit of
// work. The entity type must carry an `id` primary key plus `created_at` and
// `updated_at` columns; no other field is ever inspected by name.
func NewRepository[T any](session *database.Session) Repository[T] {
	return &baseRepository[T]{
		session: session,
		entity:  reflect.TypeOf((*T)(nil)).Elem().Name(),
	}
}

func (r *baseRepository[T]) EntityName() string         { return r.entity }
func (r *baseRepository[T]) Session() *database.Session { return r.session }

func (r *baseRepository[T]) NewSelect() *bun.SelectQuery { return r.session.Conn().NewSelect() }
func (r *baseRepository[T]) NewInsert() *bun.InsertQuery { return r.session.Conn().NewInsert() }
func (r *baseRepository[T]) NewUpdate() *bun.UpdateQuery { return r.session.Conn().NewUpdate() }
func (r *baseRepository[T]) NewDelete() *bun.DeleteQuery { return r.session.Conn().NewDelete() }

func (r *baseRepository[T]) Begin(ctx context.Context) error { return r.session.Begin(ctx) }
func (r *baseRepository[T]) Commit() error                   { return r.session.Commit() }
func (r *baseRepository[T]) Rollback() error                 { return r.session.Rollback() }

func (r *baseRepository[T]) Create(ctx context.Context, entity *T) (*T, error) {
	_, err := r.session.Conn().NewInsert().Model(entity).Exec(ctx)
	if err != nil {
		return nil, apperr.Translate(err, "create", r.entity, nil)
	}
	id, err := r.primaryKey(entity)
	if err != nil {
		return entity, nil
	}
	// Re-read so store-populated defaults (timestamps) are visible.
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return entity, nil
	}
	return stored, nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id interface{}) (*T, error) {
	var entity T
	err := r.session.Conn().NewSelect().Model(&entity).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Translate(err, "get_by_id", r.entity, id)
	}
	return &entity, nil
}

func (r *baseRepository[T]) GetAll(ctx context.Context, skip, limit int) ([]*T, error) {
	entities := make([]*T, 0)
	err := r.session.Conn().NewSelect().
		Model(&entities).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, apperr.Translate(err, "get_all", r.entity, nil)
	}
	return entities, nil
}

func (r *baseRepository[T]) UpdateFields(ctx context.Context, id interface{}, fields map[string]interface{}) (*T, error) {
	exists, err := r.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	var model T
	q := r.session.Conn().NewUpdate().Model(&model).Where("id = ?", id)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		q = q.Set("? = ?", bun.Ident(name), fields[name])
	}
	if _, touched := fields["updated_at"]; !touched {
		q = q.Set("? = ?", bun.Ident("updated_at"), time.Now())
	}

	if _, err := q.Exec(ctx); err != nil {
		return nil, apperr.Translate(err, "update", r.entity, id)
	}
	return r.GetByID(ctx, id)
}

func (r *baseRepository[T]) Delete(ctx context.Context, id interface{}) (bool, error) {
	var entity T
	res, err := r.session.Conn().NewDelete().Model(&entity).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return false, apperr.Translate(err, "delete", r.entity, id)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Translate(err, "delete", r.entity, id)
	}
	return affected > 0, nil
}

func (r *baseRepository[T]) Exists(ctx context.Context, id interface{}) (bool, error) {
	var entity T
	exists, err := r.session.Conn().NewSelect().Model(&entity).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return false, apperr.Translate(err, "exists", r.entity, id)
	}
	return exists, nil
}

func (r *baseRepository[T]) Count(ctx context.Context, criteria types.Criteria) (int, error) {
	var entity T
	q := r.session.Conn().NewSelect().Model(&entity)
	q, err := criteria.Apply(q)
	if err != nil {
		return 0, apperr.BusinessLogic("count", r.entity, err.Error())
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, apperr.Translate(err, "count", r.entity, nil)
	}
	return count, nil
}

func (r *baseRepository[T]) FindByCriteria(ctx context.Context, criteria types.Criteria, skip, limit int, orderBy ...string) ([]*T, error) {
	entities := make([]*T, 0)
	q := r.session.Conn().NewSelect().Model(&entities)
	q, err := criteria.Apply(q)
	if err != nil {
		return nil, apperr.BusinessLogic("find_by_criteria", r.entity, err.Error())
	}
	if len(orderBy) > 0 {
		q = q.Order(orderBy...)
	}
	if err := q.Offset(skip).Limit(limit).Scan(ctx); err != nil {
		return nil, apperr.Translate(err, "find_by_criteria", r.entity, nil)
	}
	return entities, nil
}

func (r *baseRepository[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Page[T], error) {
	entities := make([]*T, 0)
	q := r.session.Conn().NewSelect().Model(&entities)
	if page.GetCriteria() != nil {
		var err error
		q, err = page.GetCriteria().Apply(q)
		if err != nil {
			return nil, apperr.BusinessLogic("page", r.entity, err.Error())
		}
	}

	result := types.NewEmptyPage[T](page.GetSkip(), page.GetLimit())
	total, err := q.Count(ctx)
	if err != nil {
		return nil, apperr.Translate(err, "page", r.entity, nil)
	}
	if total == 0 {
		return result, nil
	}

	orders := page.GetOrders()
	if len(orders) == 0 {
		orders = []string{"id ASC"}
	}
	err = q.
		Offset(page.GetSkip()).
		Limit(page.GetLimit()).
		Order(orders...).
		Scan(ctx)
	if err != nil {
		return nil, apperr.Translate(err, "page", r.entity, nil)
	}
	result.Total = total
	result.Items = entities
	return result, nil
}

// primaryKey extracts the pk value from the entity using Bun's table schema.
func (r *baseRepository[T]) primaryKey(entity *T) (interface{}, error) {
	table := r.session.DB().Table(reflect.TypeOf(entity).Elem())
	if table == nil || len(table.PKs) == 0 {
		return nil, fmt.Errorf("entity %s has no primary key", r.entity)
	}
	return table.PKs[0].Value(reflect.ValueOf(entity).Elem()).Interface(), nil
}
