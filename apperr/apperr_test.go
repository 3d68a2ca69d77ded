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
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateDuplicateKeyBecomesConflict(t *testing.T) {
	cases := []error{
		&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'AC1' for key 'clients.code'"},
		&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"},
		errors.New("UNIQUE constraint failed: clients.code"),
	}
	for _, cause := range cases {
		e := Translate(cause, "create", "Client", nil)
		require.NotNil(t, e)
		assert.Equal(t, KindConflict, e.Kind)
		assert.Equal(t, SubIntegrity, e.Subkind)
		assert.Equal(t, "create", e.Op)
		assert.Equal(t, "Client", e.Entity)
		assert.ErrorIs(t, e, cause)
	}
}

func TestTranslateForeignKeyBecomesConflict(t *testing.T) {
	e := Translate(&mysql.MySQLError{Number: 1452, Message: "a foreign key constraint fails"}, "delete", "Team", int64(7))
	assert.Equal(t, KindConflict, e.Kind)
	assert.Equal(t, int64(7), e.EntityID)
}

func TestTranslateTimeoutAndCancel(t *testing.T) {
	e := Translate(context.DeadlineExceeded, "list", "Client", nil)
	assert.Equal(t, KindInfrastructure, e.Kind)
	assert.Equal(t, SubTimeout, e.Subkind)

	e = Translate(context.Canceled, "list", "Client", nil)
	assert.Equal(t, KindInfrastructure, e.Kind)
	assert.Equal(t, SubTimeout, e.Subkind)
}

func TestTranslateConnectionFailure(t *testing.T) {
	e := Translate(errors.New("dial tcp 127.0.0.1:5432: connection refused"), "get_by_id", "Client", 1)
	assert.Equal(t, KindInfrastructure, e.Kind)
	assert.Equal(t, SubConnection, e.Subkind)
}

func TestTranslateUnknownFallsBackToInfrastructure(t *testing.T) {
	e := Translate(errors.New("something odd"), "count", "Client", nil)
	assert.Equal(t, KindInfrastructure, e.Kind)
	assert.Equal(t, SubUnknown, e.Subkind)
}

func TestTranslateIsIdempotent(t *testing.T) {
	original := NotFound("get_by_id", "Client", 42)
	again := Translate(original, "update", "Other", nil)
	assert.Same(t, original, again)

	// Even when wrapped, the existing kind wins.
	wrapped := fmt.Errorf("outer: %w", original)
	assert.Equal(t, KindNotFound, Translate(wrapped, "update", "Other", nil).Kind)
}

func TestTranslateNil(t *testing.T) {
	assert.Nil(t, Translate(nil, "create", "Client", nil))
}

func TestValidationCarriesFirstViolation(t *testing.T) {
	e := Validation("create", "Client", []Violation{
		{Field: "code", Rule: SubRequired, Message: `field "code" is required`},
		{Field: "name", Rule: SubLength, Message: "too long"},
	})
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, SubRequired, e.Subkind)
	assert.Len(t, e.Violations, 2)
	assert.Nil(t, e.Unwrap())
}

func TestConflictMessageNamesField(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: clients.code")
	e := Conflict("create", "Client", "code", "AC1", cause)
	assert.Contains(t, e.Message, `field "code"`)
	assert.Equal(t, "AC1", e.Value)
	assert.ErrorIs(t, e, cause)
}

func TestKindHelpers(t *testing.T) {
	e := BusinessLogic("transfer", "Client", "source and target parent are both 1")
	assert.True(t, IsKind(e, KindBusinessLogic))
	assert.False(t, IsKind(e, KindConflict))
	assert.Equal(t, KindBusinessLogic, GetKind(e))
	assert.Equal(t, Kind(0), GetKind(errors.New("plain")))
}

func TestErrorStringIncludesLocation(t *testing.T) {
	e := NotFound("get_by_id", "Client", 42)
	msg := e.Error()
	assert.Contains(t, msg, "not_found")
	assert.Contains(t, msg, "get_by_id")
	assert.Contains(t, msg, "Client")
	assert.Contains(t, msg, "id=42")
}
