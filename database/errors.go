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
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// RawKind classifies a raw storage failure independently of the driver that
// produced it.
type RawKind int

const (
	RawUnknown RawKind = iota
	RawNoRows
	RawDuplicateKey
	RawNotNullViolation
	RawForeignKeyViolation
	RawCheckViolation
	RawDataTruncated
	RawConnectionFailure
	RawTimeout
	RawCanceled
)

// Classify maps a raw driver error onto a RawKind. It recognizes MySQL error
// numbers, PostgreSQL SQLSTATE codes via lib/pq, and falls back to message
// matching so SQLite and unwrapped driver errors classify the same way.
func Classify(err error) RawKind {
	if err == nil {
		return RawUnknown
	}
	if errors.Is(err, sql.ErrNoRows) {
		return RawNoRows
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return RawTimeout
	}
	if errors.Is(err, context.Canceled) {
		return RawCanceled
	}
	if errors.Is(err, driver.ErrBadConn) {
		return RawConnectionFailure
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return RawTimeout
		}
		return RawConnectionFailure
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062:
			return RawDuplicateKey
		case 1048:
			return RawNotNullViolation
		case 1216, 1217, 1451, 1452:
			return RawForeignKeyViolation
		case 3819:
			return RawCheckViolation
		case 1265:
			return RawDataTruncated
		default:
			return RawUnknown
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return RawDuplicateKey
		case "23502":
			return RawNotNullViolation
		case "23503":
			return RawForeignKeyViolation
		case "23514":
			return RawCheckViolation
		case "22001":
			return RawDataTruncated
		case "57014":
			return RawCanceled
		}
		switch pqErr.Code.Class() {
		case "08":
			return RawConnectionFailure
		}
		return RawUnknown
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "duplicate key value") ||
		strings.Contains(s, "unique constraint failed") ||
		strings.Contains(s, "duplicate entry") ||
		strings.Contains(s, "sqlstate 23505") {
		return RawDuplicateKey
	}
	if strings.Contains(s, "not-null constraint") ||
		strings.Contains(s, "not null constraint failed") ||
		strings.Contains(s, "sqlstate 23502") {
		return RawNotNullViolation
	}
	if strings.Contains(s, "foreign key violation") ||
		strings.Contains(s, "foreign key constraint failed") ||
		strings.Contains(s, "sqlstate 23503") {
		return RawForeignKeyViolation
	}
	if strings.Contains(s, "check constraint") ||
		strings.Contains(s, "sqlstate 23514") {
		return RawCheckViolation
	}
	if strings.Contains(s, "string data right truncation") ||
		strings.Contains(s, "data truncated") ||
		strings.Contains(s, "sqlstate 22001") {
		return RawDataTruncated
	}
	if strings.Contains(s, "timeout") || strings.Contains(s, "timed out") {
		return RawTimeout
	}
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "broken pipe") ||
		strings.Contains(s, "bad connection") {
		return RawConnectionFailure
	}
	return RawUnknown
}

// IsIntegrityViolation reports whether the error is a storage-enforced
// constraint violation.
func IsIntegrityViolation(err error) bool {
	switch Classify(err) {
	case RawDuplicateKey, RawNotNullViolation, RawForeignKeyViolation, RawCheckViolation:
		return true
	}
	return false
}
