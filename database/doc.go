// Package database provides explicit connection construction for MySQL,
// PostgreSQL, and SQLite through Bun, the per-unit-of-work Session, raw
// driver error classification, and health reporting.
package database
