package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/db"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/utils"
)

func setupCategoryTest(t *testing.T) services.ICategoryService {
	database := utils.SetupTestDB(t, "rentghar_test_categories", "categories")
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	return services.NewCategoryService(database)
}

func strPtr(s string) *string { return &s }

func TestCategoryService_Create_DerivesSlug(t *testing.T) {
	svc := setupCategoryTest(t)

	cat, err := svc.Create(context.Background(), services.CategoryInput{Name: "Market Trends & Analysis"})
	require.NoError(t, err)
	assert.Equal(t, "market-trends-analysis", cat.Slug)
}

func TestCategoryService_Create_ExplicitSlugWins(t *testing.T) {
	svc := setupCategoryTest(t)

	cat, err := svc.Create(context.Background(), services.CategoryInput{Name: "Guides", Slug: "buying-guides"})
	require.NoError(t, err)
	assert.Equal(t, "buying-guides", cat.Slug)
}

func TestCategoryService_Create_WithParent(t *testing.T) {
	svc := setupCategoryTest(t)
	ctx := context.Background()

	parent, err := svc.Create(ctx, services.CategoryInput{Name: "Guides"})
	require.NoError(t, err)

	child, err := svc.Create(ctx, services.CategoryInput{Name: "Renting", ParentID: strPtr(parent.ID.Hex())})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	joined, err := svc.FindByID(ctx, child.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, joined.Parent)
	assert.Equal(t, "Guides", joined.Parent.Name)
}

func TestCategoryService_Create_UnknownParent(t *testing.T) {
	svc := setupCategoryTest(t)

	_, err := svc.Create(context.Background(), services.CategoryInput{
		Name:     "Renting",
		ParentID: strPtr("64a000000000000000000000"),
	})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCategoryService_Create_MalformedParent(t *testing.T) {
	svc := setupCategoryTest(t)

	_, err := svc.Create(context.Background(), services.CategoryInput{
		Name:     "Renting",
		ParentID: strPtr("xyz"),
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCategoryService_Update_SelfParentRejected(t *testing.T) {
	svc := setupCategoryTest(t)
	ctx := context.Background()

	cat, err := svc.Create(ctx, services.CategoryInput{Name: "Guides"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, cat.ID.Hex(), services.CategoryInput{
		Name:     "Guides",
		ParentID: strPtr(cat.ID.Hex()),
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCategoryService_Update_ClearParent(t *testing.T) {
	svc := setupCategoryTest(t)
	ctx := context.Background()

	parent, err := svc.Create(ctx, services.CategoryInput{Name: "Guides"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, services.CategoryInput{Name: "Renting", ParentID: strPtr(parent.ID.Hex())})
	require.NoError(t, err)

	// Empty string clears the parent; nil leaves it untouched.
	updated, err := svc.Update(ctx, child.ID.Hex(), services.CategoryInput{Name: "Renting", ParentID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)
}

func TestCategoryService_FindBySlug(t *testing.T) {
	svc := setupCategoryTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, services.CategoryInput{Name: "Market Trends"})
	require.NoError(t, err)

	found, err := svc.FindBySlug(ctx, "market-trends")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.FindBySlug(ctx, "does-not-exist")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCategoryService_Delete(t *testing.T) {
	svc := setupCategoryTest(t)
	ctx := context.Background()

	cat, err := svc.Create(ctx, services.CategoryInput{Name: "Temporary"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, cat.ID.Hex()))
	_, err = svc.FindByID(ctx, cat.ID.Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)
}
