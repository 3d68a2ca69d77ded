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

import "sort"

// Capability names one fixed operation category.
type Capability string

const (
	CapCRUD          Capability = "crud"
	CapQuery         Capability = "query"
	CapAdvancedQuery Capability = "advanced_query"
	CapRelationship  Capability = "relationship"
	CapStatistics    Capability = "statistics"
	CapDateRange     Capability = "date_range"
	CapValidation    Capability = "validation"
	CapHealth        Capability = "health"
)

// Registry maps capability names to module instances. It is built once at
// facade construction and never changes afterwards.
type Registry struct {
	modules map[Capability]interface{}
}

// NewRegistry copies the given mapping into an immutable registry.
func NewRegistry(modules map[Capability]interface{}) *Registry {
	copied := make(map[Capability]interface{}, len(modules))
	for name, module := range modules {
		copied[name] = module
	}
	return &Registry{modules: copied}
}

// Get resolves a module by capability name.
func (r *Registry) Get(name Capability) (interface{}, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// Capabilities returns the registered capability names in sorted order.
func (r *Registry) Capabilities() []Capability {
	names := make([]Capability, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
