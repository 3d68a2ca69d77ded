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

	"github.com/uptrace/bun"

	"github.com/quarrylabs/quarry/database"
	"github.com/quarrylabs/quarry/types"
)

// CrudRepository defines basic persistence operations for a generic entity
// type. Absence is an explicit value: GetByID and UpdateFields return
// (nil, nil) for a missing id, and Delete returns false instead of failing.
type CrudRepository[T any] interface {
	Create(ctx context.Context, entity *T) (*T, error)

	GetByID(ctx context.Context, id interface{}) (*T, error)

	GetAll(ctx context.Context, skip, limit int) ([]*T, error)

	UpdateFields(ctx context.Context, id interface{}, fields map[string]interface{}) (*T, error)

	Delete(ctx context.Context, id interface{}) (bool, error)
}

// QueryRepository defines existence, counting, and criteria search without
// materializing more data than the caller asked for.
type QueryRepository[T any] interface {
	Exists(ctx context.Context, id interface{}) (bool, error)

	Count(ctx context.Context, criteria types.Criteria) (int, error)

	FindByCriteria(ctx context.Context, criteria types.Criteria, skip, limit int, orderBy ...string) ([]*T, error)

	Page(ctx context.Context, page *types.PageRequest) (*types.Page[T], error)
}

// TransactionControl exposes the transaction boundary of the owning session
// so composite operations can coordinate at the facade level.
type TransactionControl interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
}

// Repository combines CRUD, query, and transaction control and exposes Bun
// query builders for advanced use cases. It never outlives its session.
type Repository[T any] interface {
	CrudRepository[T]
	QueryRepository[T]
	TransactionControl
	EntityName() string
	Session() *database.Session
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
