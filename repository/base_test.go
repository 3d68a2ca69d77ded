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
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/quarrylabs/quarry/apperr"
	"github.com/quarrylabs/quarry/database"
	"github.com/quarrylabs/quarry/types"
)

type article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Code      string    `bun:"code,notnull,unique"`
	Title     string    `bun:"title,notnull"`
	Status    string    `bun:"status,notnull,default:'draft'"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newArticle(code, title, status string, createdAt time.Time) *article {
	return &article{
		Code:      code,
		Title:     title,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func newArticleRepo(t *testing.T) (context.Context, Repository[article]) {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*article)(nil)).Exec(ctx)
	require.NoError(t, err)

	return ctx, NewRepository[article](database.NewSession(db))
}

func seedArticles(t *testing.T, ctx context.Context, repo Repository[article], n int) []*article {
	t.Helper()
	base := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC) // a Monday
	seeded := make([]*article, 0, n)
	for i := 0; i < n; i++ {
		status := "draft"
		if i%2 == 0 {
			status = "published"
		}
		a, err := repo.Create(ctx, newArticle(
			string(rune('A'+i))+"-CODE",
			"article",
			status,
			base.AddDate(0, 0, i),
		))
		require.NoError(t, err)
		seeded = append(seeded, a)
	}
	return seeded
}

func TestCreateRoundTrip(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	createdAt := time.Date(2026, 8, 10, 9, 30, 0, 0, time.UTC)

	created, err := repo.Create(ctx, newArticle("GO-1", "generics in practice", "draft", createdAt))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "GO-1", created.Code)
	assert.Equal(t, "generics in practice", created.Title)
	assert.True(t, created.CreatedAt.Equal(createdAt))

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Code, fetched.Code)
}

func TestGetByIDMissingIsNotAnError(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	fetched, err := repo.GetByID(ctx, int64(12345))
	require.NoError(t, err)
	assert.Nil(t, fetched)
}

func TestCreateDuplicateIsConflict(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	createdAt := time.Now().UTC()

	_, err := repo.Create(ctx, newArticle("AC1", "first", "draft", createdAt))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newArticle("AC1", "second", "draft", createdAt))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.SubIntegrity, e.Subkind)
	assert.NotNil(t, e.Unwrap())

	count, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpdateFields(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	createdAt := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, newArticle("GO-1", "draft title", "draft", createdAt))
	require.NoError(t, err)

	updated, err := repo.UpdateFields(ctx, created.ID, map[string]interface{}{
		"title":  "final title",
		"status": "published",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "final title", updated.Title)
	assert.Equal(t, "published", updated.Status)
	assert.Equal(t, "GO-1", updated.Code)
	assert.True(t, updated.UpdatedAt.After(createdAt), "updated_at must be bumped")
	assert.True(t, updated.CreatedAt.Equal(createdAt), "created_at must not change")
}

func TestUpdateFieldsMissingEntity(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	updated, err := repo.UpdateFields(ctx, int64(999), map[string]interface{}{"title": "x"})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUpdateFieldsEmptyPatch(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	created, err := repo.Create(ctx, newArticle("GO-1", "title", "draft", time.Now().UTC()))
	require.NoError(t, err)

	same, err := repo.UpdateFields(ctx, created.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, same)
	assert.Equal(t, created.Title, same.Title)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	created, err := repo.Create(ctx, newArticle("GO-1", "title", "draft", time.Now().UTC()))
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	exists, err := repo.Exists(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetAllIsOrderedAndWindowed(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	seedArticles(t, ctx, repo, 5)

	first, err := repo.GetAll(ctx, 0, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.True(t, first[0].ID < first[1].ID && first[1].ID < first[2].ID)

	rest, err := repo.GetAll(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Greater(t, rest[0].ID, first[2].ID)
}

func TestCountWithCriteria(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	seedArticles(t, ctx, repo, 5)

	published, err := repo.Count(ctx, types.Where("status", "published"))
	require.NoError(t, err)
	assert.Equal(t, 3, published)

	total, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestFindByCriteriaWithInOperator(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	seeded := seedArticles(t, ctx, repo, 5)

	wanted := []string{seeded[3].Code, seeded[0].Code, seeded[4].Code}
	found, err := repo.FindByCriteria(ctx,
		types.Criteria{"code": types.Condition{Op: types.OpIn, Value: wanted}},
		0, 10, "created_at ASC")
	require.NoError(t, err)
	require.Len(t, found, 3)
	// Result order follows created_at, not the order of the in-list.
	assert.Equal(t, seeded[0].Code, found[0].Code)
	assert.Equal(t, seeded[3].Code, found[1].Code)
	assert.Equal(t, seeded[4].Code, found[2].Code)
}

func TestFindByCriteriaUnknownOperator(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	_, err := repo.FindByCriteria(ctx,
		types.Criteria{"code": types.Condition{Op: types.Op("between"), Value: 1}},
		0, 10)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindBusinessLogic))
}

func TestPageIsDisjointAndTotalled(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	seedArticles(t, ctx, repo, 5)

	first, err := repo.Page(ctx, types.NewDefaultPageRequest(0, 2))
	require.NoError(t, err)
	assert.Equal(t, 5, first.Total)
	require.Len(t, first.Items, 2)

	second, err := repo.Page(ctx, types.NewDefaultPageRequest(2, 2))
	require.NoError(t, err)
	assert.Equal(t, 5, second.Total)
	require.Len(t, second.Items, 2)

	seen := map[int64]bool{}
	for _, item := range append(first.Items, second.Items...) {
		assert.False(t, seen[item.ID], "pages must not overlap")
		seen[item.ID] = true
	}
}

func TestPageEmptyResult(t *testing.T) {
	ctx, repo := newArticleRepo(t)
	page, err := repo.Page(ctx, types.NewPageRequest(0, 10, types.Where("status", "archived"), nil))
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)
}

func TestEntityName(t *testing.T) {
	_, repo := newArticleRepo(t)
	assert.Equal(t, "article", repo.EntityName())
}
