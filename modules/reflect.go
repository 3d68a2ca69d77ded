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
	"reflect"
	"time"

	"github.com/uptrace/bun"

	"github.com/quarrylabs/quarry/validation"
)

// DataOf maps an entity's set (non-zero) struct fields onto validation data
// keyed by column name, using Bun's table schema. Zero values are treated as
// unset so Required rules report them as missing.
func DataOf[T any](db *bun.DB, entity *T) validation.Data {
	table := db.Table(reflect.TypeOf(entity).Elem())
	strct := reflect.ValueOf(entity).Elem()
	data := make(validation.Data, len(table.Fields))
	for _, field := range table.Fields {
		v := field.Value(strct)
		if v.IsZero() {
			continue
		}
		data[field.Name] = v.Interface()
	}
	return data
}

// fieldTime reads a time.Time column from an entity by column name.
func fieldTime[T any](db *bun.DB, entity *T, column string) (time.Time, bool) {
	table := db.Table(reflect.TypeOf(entity).Elem())
	strct := reflect.ValueOf(entity).Elem()
	for _, field := range table.Fields {
		if field.Name != column {
			continue
		}
		if t, ok := field.Value(strct).Interface().(time.Time); ok {
			return t, true
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}
