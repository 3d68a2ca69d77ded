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

package quarry

import (
	"context"
	"reflect"
	"time"

	"github.com/quarrylabs/quarry/apperr"
	"github.com/quarrylabs/quarry/database"
	"github.com/quarrylabs/quarry/modules"
	"github.com/quarrylabs/quarry/repository"
	"github.com/quarrylabs/quarry/types"
	"github.com/quarrylabs/quarry/validation"
)

// Spec declares how one entity type binds to the capability modules: its
// rule sets, unique and searchable fields, relations, and hooks. The core
// never learns the entity's domain fields beyond what Spec names.
type Spec[T any] struct {
	// Name overrides the entity type name used in errors and diagnostics.
	Name string
	// CreateRules and UpdateRules run before the respective mutations.
	// Uniqueness rules are added automatically for UniqueFields.
	CreateRules []validation.Rule
	UpdateRules []validation.Rule
	// UniqueFields get an advisory uniqueness check before mutations and
	// conflict field attribution after storage-level violations.
	UniqueFields []string
	// SearchFields are the columns scanned by Search and FuzzySearch.
	SearchFields []string
	// Relations are Bun relation names eager-loaded by GetWithRelations.
	Relations []string
	// ParentField is the foreign key column used by Transfer.
	ParentField string
	// ParentExists verifies the transfer target; it must query through the
	// facade's session.
	ParentExists modules.ParentExistsFunc
	// DeleteGuard rejects deletes that would violate a domain invariant.
	DeleteGuard modules.DeleteGuard
	// Mode selects fail-fast or collect-all validation reporting.
	Mode validation.Mode
}

// Facade is the single entry point for one entity type within one unit of
// work. It routes every call to exactly one capability module and guarantees
// that mutating calls either fully commit or fully roll back. A Facade is
// bound to one session and must not be shared across concurrent units of
// work.
type Facade[T any] struct {
	session   *database.Session
	entity    string
	registry  *modules.Registry
	repo      repository.Repository[T]
	validator *modules.Validator[T]
	crud      *modules.CRUD[T]
	query     *modules.Query[T]
	advanced  *modules.AdvancedQuery[T]
	rel       *modules.Relationship[T]
	stats     *modules.Statistics[T]
	dates     *modules.DateRange[T]
	health    *modules.Health
}

// New constructs a facade and its modules for the given session. The module
// registry is fixed for the facade's lifetime.
func New[T any](session *database.Session, spec Spec[T]) *Facade[T] {
	entity := spec.Name
	if entity == "" {
		entity = reflect.TypeOf((*T)(nil)).Elem().Name()
	}

	repo := repository.NewRepository[T](session)
	validator := modules.NewValidator(repo, spec.CreateRules, spec.UpdateRules, spec.UniqueFields, spec.Mode)

	f := &Facade[T]{
		session:   session,
		entity:    entity,
		repo:      repo,
		validator: validator,
		crud:      modules.NewCRUD(repo, validator, spec.DeleteGuard),
		query:     modules.NewQuery(repo, spec.SearchFields),
		advanced:  modules.NewAdvancedQuery(repo, spec.Relations, spec.SearchFields),
		rel:       modules.NewRelationship(repo, spec.ParentField, spec.ParentExists),
		stats:     modules.NewStatistics(repo),
		dates:     modules.NewDateRange(repo),
	}
	f.health = modules.NewHealth(entity, session)
	f.registry = modules.NewRegistry(map[modules.Capability]interface{}{
		modules.CapCRUD:          f.crud,
		modules.CapQuery:         f.query,
		modules.CapAdvancedQuery: f.advanced,
		modules.CapRelationship:  f.rel,
		modules.CapStatistics:    f.stats,
		modules.CapDateRange:     f.dates,
		modules.CapValidation:    f.validator,
		modules.CapHealth:        f.health,
	})
	f.health.Bind(f.registry)
	return f
}

// Session returns the unit-of-work session the facade is bound to.
func (f *Facade[T]) Session() *database.Session { return f.session }

// Registry returns the immutable capability registry.
func (f *Facade[T]) Registry() *modules.Registry { return f.registry }

// EntityName returns the entity type name used in errors.
func (f *Facade[T]) EntityName() string { return f.entity }

// runMutation executes fn inside the session's transaction. Any error rolls
// the transaction back before it propagates; the facade never swallows it.
func runMutation[T, R any](ctx context.Context, f *Facade[T], op string, fn func(ctx context.Context) (R, error)) (R, error) {
	var out R
	err := f.session.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	if err != nil {
		var zero R
		return zero, apperr.Translate(err, op, f.entity, nil)
	}
	return out, nil
}

// Create validates and persists a new entity.
func (f *Facade[T]) Create(ctx context.Context, entity *T) (*T, error) {
	return runMutation(ctx, f, "create", func(ctx context.Context) (*T, error) {
		return f.crud.Create(ctx, entity)
	})
}

// Update validates and applies a partial field update.
func (f *Facade[T]) Update(ctx context.Context, id interface{}, fields map[string]interface{}) (*T, error) {
	return runMutation(ctx, f, "update", func(ctx context.Context) (*T, error) {
		return f.crud.Update(ctx, id, fields)
	})
}

// Delete removes an entity; deleting a missing id returns false, not an
// error.
func (f *Facade[T]) Delete(ctx context.Context, id interface{}) (bool, error) {
	return runMutation(ctx, f, "delete", func(ctx context.Context) (bool, error) {
		return f.crud.Delete(ctx, id)
	})
}

// ValidateCreate runs the create rule set without persisting anything.
func (f *Facade[T]) ValidateCreate(ctx context.Context, entity *T) error {
	return f.validator.ValidateCreate(ctx, modules.DataOf(f.session.DB(), entity))
}

// ValidateUpdate runs the update rule set against a partial patch.
func (f *Facade[T]) ValidateUpdate(ctx context.Context, id interface{}, fields map[string]interface{}) error {
	return f.validator.ValidateUpdate(ctx, id, validation.Data(fields))
}

// GetByID returns the entity or a NotFound error.
func (f *Facade[T]) GetByID(ctx context.Context, id interface{}) (*T, error) {
	return f.query.GetByID(ctx, id)
}

// Lookup returns the first entity whose field equals value.
func (f *Facade[T]) Lookup(ctx context.Context, field string, value interface{}) (*T, error) {
	return f.query.Lookup(ctx, field, value)
}

// List returns a window of entities ordered by id.
func (f *Facade[T]) List(ctx context.Context, skip, limit int) ([]*T, error) {
	return f.query.List(ctx, skip, limit)
}

// ListPage returns a window of entities plus the total count.
func (f *Facade[T]) ListPage(ctx context.Context, page *types.PageRequest) (*types.Page[T], error) {
	return f.query.ListPage(ctx, page)
}

// Search matches a substring pattern against the declared search fields.
func (f *Facade[T]) Search(ctx context.Context, pattern string, skip, limit int) ([]*T, error) {
	return f.query.Search(ctx, pattern, skip, limit)
}

// Filter returns entities matching all criteria.
func (f *Facade[T]) Filter(ctx context.Context, criteria types.Criteria, skip, limit int, orderBy ...string) ([]*T, error) {
	return f.advanced.Filter(ctx, criteria, skip, limit, orderBy...)
}

// FilterCount counts entities matching all criteria.
func (f *Facade[T]) FilterCount(ctx context.Context, criteria types.Criteria) (int, error) {
	return f.advanced.FilterCount(ctx, criteria)
}

// GetWithRelations fetches an entity with its declared relations loaded.
func (f *Facade[T]) GetWithRelations(ctx context.Context, id interface{}) (*T, error) {
	return f.advanced.GetWithRelations(ctx, id)
}

// FuzzySearch tokenizes the term and matches every token against the search
// fields.
func (f *Facade[T]) FuzzySearch(ctx context.Context, term string, skip, limit int) ([]*T, error) {
	return f.advanced.FuzzySearch(ctx, term, skip, limit)
}

// Transfer reassigns this entity's rows from one parent to another inside a
// single transaction.
func (f *Facade[T]) Transfer(ctx context.Context, fromParent, toParent interface{}) (int, error) {
	return runMutation(ctx, f, "transfer", func(ctx context.Context) (int, error) {
		return f.rel.Transfer(ctx, fromParent, toParent)
	})
}

// CountAll counts every entity.
func (f *Facade[T]) CountAll(ctx context.Context) (int, error) {
	return f.stats.CountAll(ctx)
}

// CountBy groups entities by a column and counts each group.
func (f *Facade[T]) CountBy(ctx context.Context, field string) (map[string]int, error) {
	return f.stats.CountBy(ctx, field)
}

// CreatedPerDay buckets creations since the given time by calendar day.
func (f *Facade[T]) CreatedPerDay(ctx context.Context, since time.Time) ([]modules.DayCount, error) {
	return f.stats.CreatedPerDay(ctx, since)
}

// TopBy returns the n most frequent values of a column.
func (f *Facade[T]) TopBy(ctx context.Context, field string, n int) ([]modules.FieldCount, error) {
	return f.stats.TopBy(ctx, field, n)
}

// CreatedBetween returns entities created inside the inclusive range.
func (f *Facade[T]) CreatedBetween(ctx context.Context, from, to time.Time, skip, limit int) ([]*T, error) {
	return f.dates.CreatedBetween(ctx, from, to, skip, limit)
}

// UpdatedSince returns entities updated at or after the given time.
func (f *Facade[T]) UpdatedSince(ctx context.Context, since time.Time, skip, limit int) ([]*T, error) {
	return f.dates.UpdatedSince(ctx, since, skip, limit)
}

// CreatedOnBusinessDays returns range entities created on business days.
func (f *Facade[T]) CreatedOnBusinessDays(ctx context.Context, from, to time.Time, holidays modules.Holidays) ([]*T, error) {
	return f.dates.CreatedOnBusinessDays(ctx, from, to, holidays)
}

// Health reports per-capability availability and store health.
func (f *Facade[T]) Health(ctx context.Context) *modules.HealthReport {
	return f.health.Report(ctx)
}
