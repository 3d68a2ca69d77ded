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

package apperr

import (
	"errors"

	"github.com/quarrylabs/quarry/database"
)

// Translate maps a raw storage failure onto the taxonomy, attaching the
// operation, entity type, and (when available) entity id. It is total: every
// non-nil input maps to exactly one kind. Errors that already carry a kind
// pass through unchanged so translation is idempotent across layers.
func Translate(err error, op, entity string, id interface{}) *Error {
	if err == nil {
		return nil
	}

	var already *Error
	if errors.As(err, &already) {
		return already
	}

	switch database.Classify(err) {
	case database.RawDuplicateKey, database.RawNotNullViolation,
		database.RawForeignKeyViolation, database.RawCheckViolation,
		database.RawDataTruncated:
		e := Conflict(op, entity, "", nil, err)
		e.EntityID = id
		return e
	case database.RawConnectionFailure:
		e := Infrastructure(op, entity, SubConnection, err)
		e.EntityID = id
		return e
	case database.RawTimeout, database.RawCanceled:
		e := Infrastructure(op, entity, SubTimeout, err)
		e.EntityID = id
		return e
	default:
		e := Infrastructure(op, entity, SubUnknown, err)
		e.EntityID = id
		return e
	}
}
