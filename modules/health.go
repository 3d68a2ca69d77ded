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
	"context"

	"github.com/quarrylabs/quarry/database"
)

// HealthReport describes per-capability availability plus store health. It is
// operational diagnostics, not business state.
type HealthReport struct {
	Entity       string                 `json:"entity"`
	Capabilities map[Capability]bool    `json:"capabilities"`
	Store        *database.HealthStatus `json:"store"`
}

// Health introspects the module registry and the underlying store.
type Health struct {
	entity   string
	registry *Registry
	session  *database.Session
}

// NewHealth builds the health module for one facade. The registry is bound
// once after construction because the health module is itself registered.
func NewHealth(entity string, session *database.Session) *Health {
	return &Health{entity: entity, session: session}
}

// Bind attaches the registry. Called exactly once at facade construction.
func (m *Health) Bind(registry *Registry) {
	if m.registry == nil {
		m.registry = registry
	}
}

// Report lists every expected capability, whether it is registered, and the
// current store health.
func (m *Health) Report(ctx context.Context) *HealthReport {
	expected := []Capability{
		CapCRUD, CapQuery, CapAdvancedQuery, CapRelationship,
		CapStatistics, CapDateRange, CapValidation, CapHealth,
	}
	capabilities := make(map[Capability]bool, len(expected))
	for _, name := range expected {
		if m.registry == nil {
			capabilities[name] = false
			continue
		}
		module, ok := m.registry.Get(name)
		capabilities[name] = ok && module != nil
	}
	return &HealthReport{
		Entity:       m.entity,
		Capabilities: capabilities,
		Store:        database.Health(ctx, m.session.DB()),
	}
}
