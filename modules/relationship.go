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
)

// ParentExistsFunc answers whether the parent entity with the given id
// exists. It must issue its query through the same session as the module so
// transfers stay in one transaction.
type ParentExistsFunc func(ctx context.Context, id interface{}) (bool, error)

// Relationship implements operations spanning two entities: reassigning this
// entity's rows from one parent to another. Both steps run against the same
// session, so the facade's transaction makes a partial failure fully roll
// back.
type Relationship[T any] struct {
	repo         repository.Repository[T]
	parentField  string
	parentExists ParentExistsFunc
}

// NewRelationship builds the relationship module. parentField is the foreign
// key column pointing at the parent; parentExists may be nil to skip the
// target check.
func NewRelationship[T any](repo repository.Repository[T], parentField string, parentExists ParentExistsFunc) *Relationship[T] {
	return &Relationship[T]{repo: repo, parentField: parentField, parentExists: parentExists}
}

// Transfer moves every row from one parent to another and returns the number
// of rows moved. The target-parent check runs as the second step; its failure
// must leave the first step unobservable, which the facade guarantees by
// running Transfer inside a transaction.
func (m *Relationship[T]) Transfer(ctx context.Context, fromParent, toParent interface{}) (int, error) {
	if m.parentField == "" {
		return 0, apperr.BusinessLogic("transfer", m.repo.EntityName(), "no parent field declared")
	}
	if fromParent == toParent {
		return 0, apperr.BusinessLogic("transfer", m.repo.EntityName(),
			fmt.Sprintf("source and target parent are both %v", fromParent))
	}

	var model T
	res, err := m.repo.NewUpdate().
		Model(&model).
		Set("? = ?", bun.Ident(m.parentField), toParent).
		Where("? = ?", bun.Ident(m.parentField), fromParent).
		Exec(ctx)
	if err != nil {
		return 0, apperr.Translate(err, "transfer", m.repo.EntityName(), nil)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Translate(err, "transfer", m.repo.EntityName(), nil)
	}

	if m.parentExists != nil {
		ok, err := m.parentExists(ctx, toParent)
		if err != nil {
			return 0, apperr.Translate(err, "transfer", m.repo.EntityName(), toParent)
		}
		if !ok {
			return 0, apperr.NotFound("transfer", m.repo.EntityName(), toParent)
		}
	}
	return int(moved), nil
}
