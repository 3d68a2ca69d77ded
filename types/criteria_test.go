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
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newQueryDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCriteriaFieldsAreSorted(t *testing.T) {
	c := Where("name", "a").And("code", "b").And("status", "c")
	assert.Equal(t, []string{"code", "name", "status"}, c.Fields())
}

func TestCriteriaApplyEquality(t *testing.T) {
	db := newQueryDB(t)
	q := db.NewSelect().Table("clients")
	q, err := Where("status", "active").Apply(q)
	require.NoError(t, err)
	assert.Contains(t, q.String(), `"status" = 'active'`)
}

func TestCriteriaApplyOperators(t *testing.T) {
	db := newQueryDB(t)
	c := Criteria{
		"age":  Condition{Op: OpGte, Value: 18},
		"name": Condition{Op: OpLike, Value: "%ann%"},
		"id":   Condition{Op: OpIn, Value: []int64{1, 2, 3}},
	}
	q, err := c.Apply(db.NewSelect().Table("clients"))
	require.NoError(t, err)

	sql := q.String()
	assert.Contains(t, sql, `"age" >= 18`)
	assert.Contains(t, sql, `"name" LIKE '%ann%'`)
	assert.Contains(t, sql, `"id" IN (1, 2, 3)`)
}

func TestCriteriaApplyUnknownOperator(t *testing.T) {
	db := newQueryDB(t)
	c := Criteria{"status": Condition{Op: Op("between"), Value: 1}}
	_, err := c.Apply(db.NewSelect().Table("clients"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown criteria operator")
}

func TestPageRequestNormalizesBounds(t *testing.T) {
	p := NewDefaultPageRequest(-5, 0)
	assert.Equal(t, 0, p.GetSkip())
	assert.Equal(t, 20, p.GetLimit())
}
