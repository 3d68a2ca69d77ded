// Package repository provides the generic CRUD and query engine bound to one
// entity type and one session. It is the only component that issues
// operations against the store.
package repository
