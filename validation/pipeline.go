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

// Package validation runs ordered, reusable rule checks over candidate data
// before a mutating operation. Plain field rules run first; uniqueness and
// business rules only run once the field rules have all passed.
package validation

import (
	"context"

	"github.com/quarrylabs/quarry/apperr"
)

// Mode selects how the pipeline reacts to a failing rule.
type Mode int

const (
	// FailFast stops at the first violation.
	FailFast Mode = iota
	// CollectAll aggregates every violation before reporting.
	CollectAll
)

// Result is either acceptance (no violations) or the ordered violation list.
type Result struct {
	Violations []apperr.Violation
}

// OK reports whether validation passed.
func (r *Result) OK() bool { return len(r.Violations) == 0 }

// Err folds the violations into a single taxonomy error, or nil on success.
func (r *Result) Err(op, entity string) error {
	if r.OK() {
		return nil
	}
	return apperr.Validation(op, entity, r.Violations)
}

// Validate evaluates the rules against data in declaration order. Deferred
// rules (uniqueness, business) are skipped entirely while any plain field
// rule has failed, so a missing required field never triggers an existence
// query. The returned error is reserved for checks that could not run.
func Validate(ctx context.Context, data Data, rules []Rule, mode Mode) (*Result, error) {
	result := &Result{}

	for _, rule := range rules {
		if isDeferred(rule) {
			continue
		}
		v, err := rule.Check(ctx, data)
		if err != nil {
			return nil, err
		}
		if v != nil {
			result.Violations = append(result.Violations, *v)
			if mode == FailFast {
				return result, nil
			}
		}
	}
	if !result.OK() {
		return result, nil
	}

	for _, rule := range rules {
		if !isDeferred(rule) {
			continue
		}
		v, err := rule.Check(ctx, data)
		if err != nil {
			return nil, err
		}
		if v != nil {
			result.Violations = append(result.Violations, *v)
			if mode == FailFast {
				return result, nil
			}
		}
	}
	return result, nil
}
