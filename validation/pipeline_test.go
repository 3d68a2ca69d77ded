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
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/quarry/apperr"
)

func TestRequired(t *testing.T) {
	rule := Required("name")
	ctx := context.Background()

	v, err := rule.Check(ctx, Data{})
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, apperr.SubRequired, v.Rule)

	v, err = rule.Check(ctx, Data{"name": "   "})
	require.NoError(t, err)
	assert.NotNil(t, v)

	v, err = rule.Check(ctx, Data{"name": "ann"})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestFormatSkipsAbsentField(t *testing.T) {
	rule := Format("code", regexp.MustCompile(`^[A-Z]+$`))
	ctx := context.Background()

	v, err := rule.Check(ctx, Data{})
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = rule.Check(ctx, Data{"code": "abc"})
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, apperr.SubFormat, v.Rule)

	v, err = rule.Check(ctx, Data{"code": "ABC"})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestLengthBounds(t *testing.T) {
	rule := Length("name", 2, 4)
	ctx := context.Background()

	v, err := rule.Check(ctx, Data{"name": "a"})
	require.NoError(t, err)
	assert.NotNil(t, v)

	v, err = rule.Check(ctx, Data{"name": "abcde"})
	require.NoError(t, err)
	assert.NotNil(t, v)

	v, err = rule.Check(ctx, Data{"name": "abc"})
	require.NoError(t, err)
	assert.Nil(t, v)

	// max < 0 means unbounded.
	unbounded := Length("name", 0, -1)
	v, err = unbounded.Check(ctx, Data{"name": "a very long value indeed"})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRangeCoercesNumericTypes(t *testing.T) {
	rule := Range("age", 0, 150)
	ctx := context.Background()

	for _, value := range []interface{}{int(30), int64(30), float64(30), uint8(30)} {
		v, err := rule.Check(ctx, Data{"age": value})
		require.NoError(t, err)
		assert.Nil(t, v)
	}

	v, err := rule.Check(ctx, Data{"age": 151})
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, apperr.SubRange, v.Rule)

	v, err = rule.Check(ctx, Data{"age": "thirty"})
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestValidateFailFastStopsAtFirstViolation(t *testing.T) {
	rules := []Rule{
		Required("code"),
		Required("name"),
		Length("name", 2, 10),
	}
	result, err := Validate(context.Background(), Data{}, rules, FailFast)
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "code", result.Violations[0].Field)
}

func TestValidateCollectAllAggregates(t *testing.T) {
	rules := []Rule{
		Required("code"),
		Required("name"),
		Length("email", 5, 100),
	}
	result, err := Validate(context.Background(), Data{"email": "a@b"}, rules, CollectAll)
	require.NoError(t, err)
	require.Len(t, result.Violations, 3)
	assert.Equal(t, "code", result.Violations[0].Field)
	assert.Equal(t, "name", result.Violations[1].Field)
	assert.Equal(t, "email", result.Violations[2].Field)
}

func TestDeferredRulesSkippedWhenFieldRulesFail(t *testing.T) {
	queries := 0
	unique := Unique("code", func(_ context.Context, _ string, _ interface{}) (bool, error) {
		queries++
		return true, nil
	})
	rules := []Rule{Required("name"), unique}

	// Missing required field: the existence query must not run, in either mode.
	for _, mode := range []Mode{FailFast, CollectAll} {
		result, err := Validate(context.Background(), Data{"code": "AC1"}, rules, mode)
		require.NoError(t, err)
		require.Len(t, result.Violations, 1)
		assert.Equal(t, apperr.SubRequired, result.Violations[0].Rule)
	}
	assert.Equal(t, 0, queries)

	// Field rules pass: now the uniqueness check runs and reports the clash.
	result, err := Validate(context.Background(), Data{"name": "ann", "code": "AC1"}, rules, FailFast)
	require.NoError(t, err)
	assert.Equal(t, 1, queries)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, apperr.SubUniqueness, result.Violations[0].Rule)
}

func TestUniqueSkipsAbsentValue(t *testing.T) {
	called := false
	unique := Unique("code", func(_ context.Context, _ string, _ interface{}) (bool, error) {
		called = true
		return false, nil
	})
	v, err := unique.Check(context.Background(), Data{})
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.False(t, called)
}

func TestUniqueCheckFailurePropagates(t *testing.T) {
	boom := errors.New("connection refused")
	unique := Unique("code", func(_ context.Context, _ string, _ interface{}) (bool, error) {
		return false, boom
	})
	_, err := Validate(context.Background(), Data{"code": "AC1"}, []Rule{unique}, FailFast)
	require.ErrorIs(t, err, boom)
}

func TestBusinessRule(t *testing.T) {
	rule := Business("dates_ordered", func(_ context.Context, data Data) (bool, string, error) {
		start, _ := data["start"].(int)
		end, _ := data["end"].(int)
		if end < start {
			return false, "end must not be before start", nil
		}
		return true, "", nil
	})

	v, err := rule.Check(context.Background(), Data{"start": 2, "end": 1})
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, apperr.SubBusiness, v.Rule)
	assert.Equal(t, "end must not be before start", v.Message)

	v, err = rule.Check(context.Background(), Data{"start": 1, "end": 2})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestResultErrFoldsViolations(t *testing.T) {
	result, err := Validate(context.Background(), Data{}, []Rule{Required("code")}, FailFast)
	require.NoError(t, err)

	verr := result.Err("create", "Client")
	require.Error(t, verr)
	assert.True(t, apperr.IsKind(verr, apperr.KindValidation))

	var e *apperr.Error
	require.ErrorAs(t, verr, &e)
	assert.Equal(t, apperr.SubRequired, e.Subkind)
	assert.Len(t, e.Violations, 1)

	ok := &Result{}
	assert.NoError(t, ok.Err("create", "Client"))
}
