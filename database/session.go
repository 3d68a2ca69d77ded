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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Session scopes one unit of work over a shared *bun.DB. It carries at most
// one open transaction; while a transaction is open, Conn returns it so that
// every operation in the unit of work observes the same state.
//
// A Session is not safe for concurrent use. Create one per request and
// discard it when the unit of work ends; the underlying *bun.DB is shared and
// stays open.
type Session struct {
	db *bun.DB
	tx *bun.Tx
}

// NewSession binds a fresh unit of work to the database handle.
func NewSession(db *bun.DB) *Session {
	return &Session{db: db}
}

// DB returns the underlying database handle.
func (s *Session) DB() *bun.DB { return s.db }

// Conn returns the open transaction if one is active, otherwise the database.
func (s *Session) Conn() bun.IDB {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// InTx reports whether a transaction is currently open.
func (s *Session) InTx() bool { return s.tx != nil }

// Begin opens a transaction. Beginning while one is already open is an error;
// nesting is handled by RunInTx instead.
func (s *Session) Begin(ctx context.Context) error {
	if s.tx != nil {
		return errors.New("session already has an open transaction")
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.tx = &tx
	return nil
}

// Commit commits the open transaction. Committing with no open transaction is
// a no-op so that callers can commit unconditionally at the end of a unit of
// work.
func (s *Session) Commit() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the open transaction. Safe to call on all exit paths:
// with no open transaction it is a no-op.
func (s *Session) Rollback() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// RunInTx executes fn within a transaction. If fn returns an error or panics,
// the transaction is rolled back (panics are re-raised); otherwise it is
// committed. When the session already has an open transaction, fn joins it
// and the outer caller keeps control of the boundary.
func (s *Session) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx != nil {
		return fn(ctx)
	}

	if err := s.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = s.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx); err != nil {
		if rbErr := s.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}
	return s.Commit()
}
