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

	"github.com/quarrylabs/quarry/apperr"
	"github.com/quarrylabs/quarry/repository"
	"github.com/quarrylabs/quarry/types"
	"github.com/quarrylabs/quarry/validation"
)

// Validator runs the entity's rule sets before mutating operations. Declared
// unique fields get a uniqueness rule backed by the repository's Count, so
// the existence query only runs once the plain field rules pass.
type Validator[T any] struct {
	repo         repository.Repository[T]
	createRules  []validation.Rule
	updateRules  []validation.Rule
	uniqueFields []string
	mode         validation.Mode
}

// NewValidator builds the validation module for one entity type.
func NewValidator[T any](
	repo repository.Repository[T],
	createRules, updateRules []validation.Rule,
	uniqueFields []string,
	mode validation.Mode,
) *Validator[T] {
	return &Validator[T]{
		repo:         repo,
		createRules:  createRules,
		updateRules:  updateRules,
		uniqueFields: uniqueFields,
		mode:         mode,
	}
}

// ValidateCreate checks candidate data for a create. A nil return means the
// data is acceptable.
func (v *Validator[T]) ValidateCreate(ctx context.Context, data validation.Data) error {
	rules := append([]validation.Rule{}, v.createRules...)
	for _, field := range v.uniqueFields {
		rules = append(rules, validation.Unique(field, v.existsFn(nil)))
	}
	return v.run(ctx, "create", data, rules)
}

// ValidateUpdate checks a partial update. Required rules only apply to fields
// present in the patch, and uniqueness checks exclude the entity's own id.
func (v *Validator[T]) ValidateUpdate(ctx context.Context, id interface{}, data validation.Data) error {
	rules := make([]validation.Rule, 0, len(v.updateRules)+len(v.uniqueFields))
	for _, rule := range v.updateRules {
		if rule.Kind() == apperr.SubRequired {
			if _, present := data[rule.Field()]; !present {
				continue
			}
		}
		rules = append(rules, rule)
	}
	for _, field := range v.uniqueFields {
		rules = append(rules, validation.Unique(field, v.existsFn(id)))
	}
	return v.run(ctx, "update", data, rules)
}

func (v *Validator[T]) run(ctx context.Context, op string, data validation.Data, rules []validation.Rule) error {
	result, err := validation.Validate(ctx, data, rules, v.mode)
	if err != nil {
		return apperr.Translate(err, op, v.repo.EntityName(), nil)
	}
	return result.Err(op, v.repo.EntityName())
}

func (v *Validator[T]) existsFn(excludeID interface{}) validation.ExistsFunc {
	return func(ctx context.Context, field string, value interface{}) (bool, error) {
		criteria := types.Where(field, value)
		if excludeID != nil {
			criteria.And("id", types.Condition{Op: types.OpNe, Value: excludeID})
		}
		count, err := v.repo.Count(ctx, criteria)
		if err != nil {
			return false, err
		}
		return count > 0, nil
	}
}

// UniqueFields exposes the declared unique fields for conflict attribution.
func (v *Validator[T]) UniqueFields() []string { return v.uniqueFields }
