package repository

import (
	"context"
	"testing"

	"creatorr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_CRUD(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))
	ctx := context.Background()

	cat := &models.Category{Name: "Tech", ImageURL: "/images/tech.png"}
	require.NoError(t, repo.Create(ctx, cat))

	got, err := repo.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tech", got.Name)

	got.Name = "Technology"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Technology", got.Name)

	require.NoError(t, repo.Delete(ctx, cat.ID))
	_, err = repo.GetByID(ctx, cat.ID)
	assert.True(t, models.IsNotFound(err))

	err = repo.Delete(ctx, cat.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestCategoryRepository_ListOrders(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Tech", "Life", "Food"} {
		require.NoError(t, repo.Create(ctx, &models.Category{Name: name, ImageURL: "/images/c.png"}))
	}

	asc, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, "Tech", asc[0].Name)

	desc, err := repo.ListRecentFirst(ctx)
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, "Food", desc[0].Name)
}
