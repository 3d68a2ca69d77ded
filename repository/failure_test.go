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

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/quarrylabs/quarry/apperr"
	"github.com/quarrylabs/quarry/database"
)

func newMockRepo(t *testing.T) (sqlmock.Sqlmock, Repository[article]) {
	t.Helper()
	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewRepository[article](database.NewSession(db))
}

func TestConnectionFailureIsInfrastructure(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectQuery(".*").WillReturnError(errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	_, err := repo.GetByID(context.Background(), int64(1))
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.KindInfrastructure, e.Kind)
	assert.Equal(t, apperr.SubConnection, e.Subkind)
	assert.NotNil(t, e.Unwrap())
}

func TestTimeoutIsInfrastructure(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectQuery(".*").WillReturnError(context.DeadlineExceeded)

	_, err := repo.Count(context.Background(), nil)
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.KindInfrastructure, e.Kind)
	assert.Equal(t, apperr.SubTimeout, e.Subkind)
}

func TestUnknownFailureIsInfrastructure(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectExec(".*").WillReturnError(errors.New("disk I/O error"))

	_, err := repo.Delete(context.Background(), int64(1))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInfrastructure))
}
