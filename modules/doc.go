// Package modules implements the fixed capability contracts (CRUD, Query,
// AdvancedQuery, Relationship, Statistics, DateRange, Validation, Health)
// over the generic repository. Modules hold no mutable state; they are pure
// delegators constructed once per unit of work.
package modules
