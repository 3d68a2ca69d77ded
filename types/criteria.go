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

package types

import (
	"fmt"
	"sort"

	"github.com/uptrace/bun"
)

// Op is a comparison operator for a criteria condition.
type Op string

const (
	OpEq   Op = "eq"
	OpNe   Op = "ne"
	OpGt   Op = "gt"
	OpGte  Op = "gte"
	OpLt   Op = "lt"
	OpLte  Op = "lte"
	OpLike Op = "like"
	OpIn   Op = "in"
)

// Condition is a tagged comparison against a single field. A plain value in a
// Criteria means equality; a Condition selects the operator explicitly.
type Condition struct {
	Op    Op
	Value interface{}
}

// Criteria maps field names to either a literal value (equality) or a
// Condition. Field names are column names, never interpolated raw.
type Criteria map[string]interface{}

// Where constructs an equality-only criteria set.
func Where(field string, value interface{}) Criteria {
	return Criteria{field: value}
}

// And adds another field condition and returns the criteria for chaining.
func (c Criteria) And(field string, value interface{}) Criteria {
	c[field] = value
	return c
}

// Fields returns the constrained field names in deterministic order.
func (c Criteria) Fields() []string {
	fields := make([]string, 0, len(c))
	for f := range c {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Apply appends one WHERE clause per condition to the select query.
// An unknown operator is reported as an error, never silently ignored.
func (c Criteria) Apply(q *bun.SelectQuery) (*bun.SelectQuery, error) {
	for _, field := range c.Fields() {
		value := c[field]
		cond, ok := value.(Condition)
		if !ok {
			q = q.Where("? = ?", bun.Ident(field), value)
			continue
		}
		switch cond.Op {
		case OpEq:
			q = q.Where("? = ?", bun.Ident(field), cond.Value)
		case OpNe:
			q = q.Where("? != ?", bun.Ident(field), cond.Value)
		case OpGt:
			q = q.Where("? > ?", bun.Ident(field), cond.Value)
		case OpGte:
			q = q.Where("? >= ?", bun.Ident(field), cond.Value)
		case OpLt:
			q = q.Where("? < ?", bun.Ident(field), cond.Value)
		case OpLte:
			q = q.Where("? <= ?", bun.Ident(field), cond.Value)
		case OpLike:
			q = q.Where("? LIKE ?", bun.Ident(field), cond.Value)
		case OpIn:
			q = q.Where("? IN (?)", bun.Ident(field), bun.In(cond.Value))
		default:
			return nil, fmt.Errorf("unknown criteria operator %q on field %q", cond.Op, field)
		}
	}
	return q, nil
}
