package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"oohunt/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(title string, status domain.ProductStatus) *domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	price := 19.99
	return &domain.Product{
		ID:        uuid.New(),
		Slug:      "",
		Title:     title,
		Price:     &price,
		Images:    []string{"https://cdn.test/" + title + ".jpg"},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProductRepository_UpsertAndFind(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := newProduct("kettle", domain.ProductStatusPublished)
	require.NoError(t, repo.Upsert(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "kettle", found.Title)
	require.NotNil(t, found.Price)
	assert.InDelta(t, 19.99, *found.Price, 0.001)
	assert.Nil(t, found.Rating)
	assert.Equal(t, product.Images, found.Images)

	rating := 4.5
	product.Title = "electric kettle"
	product.Rating = &rating
	require.NoError(t, repo.Upsert(ctx, product))

	found, err = repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "electric kettle", found.Title)
	require.NotNil(t, found.Rating)
	assert.InDelta(t, 4.5, *found.Rating, 0.001)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductRepository_FindPublishedByIDs(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	live := newProduct("live", domain.ProductStatusPublished)
	draft := newProduct("draft", domain.ProductStatusDraft)
	require.NoError(t, repo.Upsert(ctx, live))
	require.NoError(t, repo.Upsert(ctx, draft))

	products, err := repo.FindPublishedByIDs(ctx, []uuid.UUID{live.ID, draft.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, live.ID, products[0].ID)

	products, err = repo.FindPublishedByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductRepository_FindPublishedByIDsUsesPrimaryKey(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	tx, err := testDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `SET LOCAL enable_seqscan = off`)
	require.NoError(t, err)

	rows, err := tx.QueryContext(ctx, `EXPLAIN `+publishedByIDsQuery, []string{uuid.NewString(), uuid.NewString()})
	require.NoError(t, err)
	defer rows.Close()

	var plan strings.Builder
	for rows.Next() {
		var line string
		require.NoError(t, rows.Scan(&line))
		plan.WriteString(line + "\n")
	}
	require.NoError(t, rows.Err())
	assert.Contains(t, plan.String(), "products_pkey")
}
