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

// PageRequest describes a skip/limit window with optional criteria and ordering.
type PageRequest struct {
	skip     int
	limit    int
	criteria Criteria
	orders   []string // "id ASC", "created_at DESC"
}

func (p *PageRequest) GetSkip() int {
	if p.skip < 0 {
		p.skip = 0
	}
	return p.skip
}

func (p *PageRequest) GetLimit() int {
	if p.limit < 1 {
		p.limit = 20
	}
	return p.limit
}

func (p *PageRequest) GetCriteria() Criteria {
	return p.criteria
}

func (p *PageRequest) GetOrders() []string {
	return p.orders
}

// NewPageRequest constructs a PageRequest with criteria and order settings.
func NewPageRequest(skip, limit int, criteria Criteria, orders []string) *PageRequest {
	return &PageRequest{skip, limit, criteria, orders}
}

// NewDefaultPageRequest constructs a PageRequest with no criteria or ordering.
func NewDefaultPageRequest(skip, limit int) *PageRequest {
	return NewPageRequest(skip, limit, nil, make([]string, 0))
}

// Page holds a result window along with the total match count.
type Page[T any] struct {
	Skip  int
	Limit int
	Total int
	Items []*T
}

// NewEmptyPage constructs a page container with no items.
func NewEmptyPage[T any](skip, limit int) *Page[T] {
	return &Page[T]{skip, limit, 0, make([]*T, 0)}
}
