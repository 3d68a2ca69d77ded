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

package validation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/quarrylabs/quarry/apperr"
)

// Data is the candidate field set handed to the pipeline before a mutation.
type Data map[string]interface{}

// Rule is one reusable check. Check returns a violation (nil when the rule
// passes) and an error only when the check itself could not run, e.g. a
// failed uniqueness query. Rules never mutate state.
type Rule interface {
	Field() string
	Kind() apperr.Subkind
	Check(ctx context.Context, data Data) (*apperr.Violation, error)
}

// Deferred marks rules that are potentially expensive (uniqueness queries,
// business predicates). The pipeline runs them only after all plain field
// rules have passed.
type Deferred interface {
	Deferred() bool
}

func isDeferred(r Rule) bool {
	d, ok := r.(Deferred)
	return ok && d.Deferred()
}

type requiredRule struct {
	field string
}

// Required checks that the field is present and non-empty.
func Required(field string) Rule {
	return &requiredRule{field: field}
}

func (r *requiredRule) Field() string        { return r.field }
func (r *requiredRule) Kind() apperr.Subkind { return apperr.SubRequired }

func (r *requiredRule) Check(_ context.Context, data Data) (*apperr.Violation, error) {
	v, ok := data[r.field]
	if !ok || v == nil {
		return violation(r, fmt.Sprintf("field %q is required", r.field)), nil
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return violation(r, fmt.Sprintf("field %q is required", r.field)), nil
	}
	return nil, nil
}

type formatRule struct {
	field   string
	matcher *regexp.Regexp
}

// Format checks a string field against a pattern. Absent fields pass; pair
// with Required when presence is mandatory.
func Format(field string, matcher *regexp.Regexp) Rule {
	return &formatRule{field: field, matcher: matcher}
}

func (r *formatRule) Field() string        { return r.field }
func (r *formatRule) Kind() apperr.Subkind { return apperr.SubFormat }

func (r *formatRule) Check(_ context.Context, data Data) (*apperr.Violation, error) {
	v, ok := data[r.field]
	if !ok || v == nil {
		return nil, nil
	}
	s, isStr := v.(string)
	if !isStr {
		return violation(r, fmt.Sprintf("field %q must be a string", r.field)), nil
	}
	if !r.matcher.MatchString(s) {
		return violation(r, fmt.Sprintf("field %q does not match %s", r.field, r.matcher.String())), nil
	}
	return nil, nil
}

type lengthRule struct {
	field    string
	min, max int
}

// Length bounds the length of a string field. Use max < 0 for no upper bound.
func Length(field string, min, max int) Rule {
	return &lengthRule{field: field, min: min, max: max}
}

func (r *lengthRule) Field() string        { return r.field }
func (r *lengthRule) Kind() apperr.Subkind { return apperr.SubLength }

func (r *lengthRule) Check(_ context.Context, data Data) (*apperr.Violation, error) {
	v, ok := data[r.field]
	if !ok || v == nil {
		return nil, nil
	}
	s, isStr := v.(string)
	if !isStr {
		return violation(r, fmt.Sprintf("field %q must be a string", r.field)), nil
	}
	if len(s) < r.min {
		return violation(r, fmt.Sprintf("field %q must be at least %d characters", r.field, r.min)), nil
	}
	if r.max >= 0 && len(s) > r.max {
		return violation(r, fmt.Sprintf("field %q must be at most %d characters", r.field, r.max)), nil
	}
	return nil, nil
}

type rangeRule struct {
	field    string
	min, max float64
}

// Range bounds a numeric field inclusively.
func Range(field string, min, max float64) Rule {
	return &rangeRule{field: field, min: min, max: max}
}

func (r *rangeRule) Field() string        { return r.field }
func (r *rangeRule) Kind() apperr.Subkind { return apperr.SubRange }

func (r *rangeRule) Check(_ context.Context, data Data) (*apperr.Violation, error) {
	v, ok := data[r.field]
	if !ok || v == nil {
		return nil, nil
	}
	n, ok := asFloat(v)
	if !ok {
		return violation(r, fmt.Sprintf("field %q must be numeric", r.field)), nil
	}
	if n < r.min || n > r.max {
		return violation(r, fmt.Sprintf("field %q must be between %v and %v", r.field, r.min, r.max)), nil
	}
	return nil, nil
}

// ExistsFunc answers whether another entity already uses the value. The
// caller closes over its repository and, on updates, its own id.
type ExistsFunc func(ctx context.Context, field string, value interface{}) (bool, error)

type uniqueRule struct {
	field  string
	exists ExistsFunc
}

// Unique checks that no other entity uses the field value. The check issues
// one read-only existence query; it is advisory only, the storage constraint
// stays authoritative under races.
func Unique(field string, exists ExistsFunc) Rule {
	return &uniqueRule{field: field, exists: exists}
}

func (r *uniqueRule) Field() string        { return r.field }
func (r *uniqueRule) Kind() apperr.Subkind { return apperr.SubUniqueness }
func (r *uniqueRule) Deferred() bool       { return true }

func (r *uniqueRule) Check(ctx context.Context, data Data) (*apperr.Violation, error) {
	v, ok := data[r.field]
	if !ok || v == nil {
		return nil, nil
	}
	taken, err := r.exists(ctx, r.field, v)
	if err != nil {
		return nil, err
	}
	if taken {
		return violation(r, fmt.Sprintf("field %q value %v is already in use", r.field, v)), nil
	}
	return nil, nil
}

// Predicate evaluates a cross-field business rule over the full candidate
// data. It returns ok=false with a message on violation.
type Predicate func(ctx context.Context, data Data) (ok bool, message string, err error)

type businessRule struct {
	name      string
	predicate Predicate
}

// Business wraps a domain predicate that is not expressible as a single-field
// rule, e.g. a start date before an end date.
func Business(name string, predicate Predicate) Rule {
	return &businessRule{name: name, predicate: predicate}
}

func (r *businessRule) Field() string        { return r.name }
func (r *businessRule) Kind() apperr.Subkind { return apperr.SubBusiness }
func (r *businessRule) Deferred() bool       { return true }

func (r *businessRule) Check(ctx context.Context, data Data) (*apperr.Violation, error) {
	ok, message, err := r.predicate(ctx, data)
	if err != nil {
		return nil, err
	}
	if !ok {
		if message == "" {
			message = fmt.Sprintf("business rule %q violated", r.name)
		}
		return violation(r, message), nil
	}
	return nil, nil
}

func violation(r Rule, message string) *apperr.Violation {
	return &apperr.Violation{Field: r.Field(), Rule: r.Kind(), Message: message}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
