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

package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

func TestHookCountsQueriesByOperationAndStatus(t *testing.T) {
	collector := New(prometheus.NewRegistry())
	hook := collector.Hook()
	ctx := context.Background()

	ok := &bun.QueryEvent{Query: "SELECT * FROM clients", StartTime: time.Now()}
	hook.AfterQuery(hook.BeforeQuery(ctx, ok), ok)
	hook.AfterQuery(ctx, ok)

	failed := &bun.QueryEvent{
		Query:     "INSERT INTO clients",
		StartTime: time.Now(),
		Err:       errors.New("UNIQUE constraint failed: clients.code"),
	}
	hook.AfterQuery(hook.BeforeQuery(ctx, failed), failed)

	assert.Equal(t, float64(2),
		testutil.ToFloat64(collector.queriesTotal.WithLabelValues(ok.Operation(), "ok")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(collector.queriesTotal.WithLabelValues(failed.Operation(), "error")))
	assert.Equal(t, float64(0),
		testutil.ToFloat64(collector.queriesTotal.WithLabelValues(failed.Operation(), "ok")))
}

func TestNewRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := New(reg)
	hook := collector.Hook()

	event := &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()}
	hook.AfterQuery(context.Background(), event)

	families, err := reg.Gather()
	assert.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "quarry_queries_total")
	assert.Contains(t, names, "quarry_query_duration_seconds")
}
