// Package quarry provides a generic data-access layer: a per-entity facade
// composing fixed capability modules (CRUD, query, statistics, relationship,
// date-range, validation, health) over a generic Bun-backed repository, with
// a closed error taxonomy and transactional units of work.
package quarry
