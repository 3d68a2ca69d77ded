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

// Package metrics exposes Prometheus collectors for store operations,
// attachable to a Bun database as a query hook.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
)

// Collector records query counts and latencies per operation and outcome.
type Collector struct {
	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

// New creates a Collector and registers its collectors on reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quarry",
				Name:      "queries_total",
				Help:      "Total store queries by operation and status.",
			},
			[]string{"operation", "status"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "quarry",
				Name:      "query_duration_seconds",
				Help:      "Store query latency by operation.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(c.queriesTotal, c.queryDuration)
	return c
}

// Hook returns a bun.QueryHook that feeds this collector.
func (c *Collector) Hook() bun.QueryHook {
	return &queryHook{collector: c}
}

type queryHook struct {
	collector *Collector
}

var _ bun.QueryHook = (*queryHook)(nil)

func (h *queryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	operation := event.Operation()
	status := "ok"
	if event.Err != nil {
		status = "error"
	}
	h.collector.queriesTotal.WithLabelValues(operation, status).Inc()
	h.collector.queryDuration.WithLabelValues(operation).Observe(time.Since(event.StartTime).Seconds())
}
