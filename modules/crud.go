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
	"errors"
	"strings"

	"github.com/quarrylabs/quarry/apperr"
	"github.com/quarrylabs/quarry/repository"
	"github.com/quarrylabs/quarry/validation"
)

// DeleteGuard checks a domain invariant before a delete, e.g. refusing to
// remove an entity with live dependents. It returns nil to allow the delete.
type DeleteGuard func(ctx context.Context, id interface{}) error

// CRUD implements the create/update/delete capability. Create and Update
// always run the validation module first.
type CRUD[T any] struct {
	repo        repository.Repository[T]
	validator   *Validator[T]
	deleteGuard DeleteGuard
}

// NewCRUD builds the CRUD module for one entity type.
func NewCRUD[T any](repo repository.Repository[T], validator *Validator[T], guard DeleteGuard) *CRUD[T] {
	return &CRUD[T]{repo: repo, validator: validator, deleteGuard: guard}
}

// Create validates the entity and persists it, returning the stored record
// with identity and timestamps populated. A storage-level uniqueness race
// surfaces as a conflict with field context attached.
func (m *CRUD[T]) Create(ctx context.Context, entity *T) (*T, error) {
	data := DataOf(m.repo.Session().DB(), entity)
	if err := m.validator.ValidateCreate(ctx, data); err != nil {
		return nil, err
	}
	created, err := m.repo.Create(ctx, entity)
	if err != nil {
		return nil, m.attachConflictContext(err, data)
	}
	return created, nil
}

// Update validates and applies a partial field update. A missing id is a
// NotFound error at this layer.
func (m *CRUD[T]) Update(ctx context.Context, id interface{}, fields map[string]interface{}) (*T, error) {
	data := validation.Data(fields)
	if err := m.validator.ValidateUpdate(ctx, id, data); err != nil {
		return nil, err
	}
	updated, err := m.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, m.attachConflictContext(err, data)
	}
	if updated == nil {
		return nil, apperr.NotFound("update", m.repo.EntityName(), id)
	}
	return updated, nil
}

// Delete removes the entity after the delete guard passes. Deleting a
// nonexistent id returns false and no error.
func (m *CRUD[T]) Delete(ctx context.Context, id interface{}) (bool, error) {
	if m.deleteGuard != nil {
		if err := m.deleteGuard(ctx, id); err != nil {
			var e *apperr.Error
			if errors.As(err, &e) {
				return false, e
			}
			return false, apperr.BusinessLogic("delete", m.repo.EntityName(), err.Error())
		}
	}
	return m.repo.Delete(ctx, id)
}

// attachConflictContext adds the violating unique field and value to a
// conflict error when they can be determined from the candidate data.
func (m *CRUD[T]) attachConflictContext(err error, data validation.Data) error {
	var e *apperr.Error
	if !errors.As(err, &e) || e.Kind != apperr.KindConflict || e.Field != "" {
		return err
	}
	cause := ""
	if c := e.Unwrap(); c != nil {
		cause = strings.ToLower(c.Error())
	}
	var fallback string
	for _, field := range m.validator.UniqueFields() {
		value, present := data[field]
		if !present {
			continue
		}
		if fallback == "" {
			fallback = field
		}
		if strings.Contains(cause, strings.ToLower(field)) {
			e.Field = field
			e.Value = value
			return e
		}
	}
	if fallback != "" {
		e.Field = fallback
		e.Value = data[fallback]
	}
	return e
}
