package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/db"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/models"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/utils"
)

func setupBlogTest(t *testing.T) (services.IBlogService, services.ICategoryService) {
	database := utils.SetupTestDB(t, "rentghar_test_blogs", "blogs", "categories")
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	return services.NewBlogService(database), services.NewCategoryService(database)
}

func TestBlogService_Create_DefaultsToDraft(t *testing.T) {
	blogSvc, _ := setupBlogTest(t)

	blog, err := blogSvc.Create(context.Background(), primitive.NewObjectID(), services.BlogInput{
		Title:   "Rent Trends 2026",
		Content: "...",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BlogStatusDraft, blog.Status)
	assert.Equal(t, "rent-trends-2026", blog.Slug)
	assert.Zero(t, blog.Views)
}

func TestBlogService_Create_InvalidStatus(t *testing.T) {
	blogSvc, _ := setupBlogTest(t)

	_, err := blogSvc.Create(context.Background(), primitive.NewObjectID(), services.BlogInput{
		Title:  "Post",
		Status: "archived",
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestBlogService_Create_MetaDescriptionTooLong(t *testing.T) {
	blogSvc, _ := setupBlogTest(t)

	_, err := blogSvc.Create(context.Background(), primitive.NewObjectID(), services.BlogInput{
		Title:           "Post",
		MetaDescription: strings.Repeat("a", 161),
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestBlogService_Create_DuplicateSlug(t *testing.T) {
	blogSvc, _ := setupBlogTest(t)
	ctx := context.Background()

	_, err := blogSvc.Create(ctx, primitive.NewObjectID(), services.BlogInput{Title: "Same Title"})
	require.NoError(t, err)
	_, err = blogSvc.Create(ctx, primitive.NewObjectID(), services.BlogInput{Title: "Same Title"})
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestBlogService_Create_UnknownCategory(t *testing.T) {
	blogSvc, _ := setupBlogTest(t)

	_, err := blogSvc.Create(context.Background(), primitive.NewObjectID(), services.BlogInput{
		Title:       "Post",
		CategoryIDs: []string{"64a000000000000000000000"},
	})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestBlogService_FindPublished_ExcludesDrafts(t *testing.T) {
	blogSvc, _ := setupBlogTest(t)
	ctx := context.Background()
	author := primitive.NewObjectID()

	_, err := blogSvc.Create(ctx, author, services.BlogInput{Title: "Draft Post"})
	require.NoError(t, err)
	published, err := blogSvc.Create(ctx, author, services.BlogInput{
		Title:  "Published Post",
		Status: models.BlogStatusPublished,
	})
	require.NoError(t, err)

	posts, err := blogSvc.FindPublished(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, published.ID, posts[0].ID)
}

func TestBlogService_FindBySlug_IncrementsViews(t *testing.T) {
	blogSvc, _ := setupBlogTest(t)
	ctx := context.Background()

	created, err := blogSvc.Create(ctx, primitive.NewObjectID(), services.BlogInput{
		Title:  "Popular Post",
		Status: models.BlogStatusPublished,
	})
	require.NoError(t, err)

	first, err := blogSvc.FindBySlug(ctx, created.Slug)
	require.NoError(t, err)
	second, err := blogSvc.FindBySlug(ctx, created.Slug)
	require.NoError(t, err)

	assert.Equal(t, first.Views+1, second.Views, "each slug fetch counts one view")
}

func TestBlogService_FindBySlug_DraftHidden(t *testing.T) {
	blogSvc, _ := setupBlogTest(t)
	ctx := context.Background()

	created, err := blogSvc.Create(ctx, primitive.NewObjectID(), services.BlogInput{Title: "Hidden Draft"})
	require.NoError(t, err)

	_, err = blogSvc.FindBySlug(ctx, created.Slug)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestBlogService_Update_TitleRederivesSlug(t *testing.T) {
	blogSvc, _ := setupBlogTest(t)
	ctx := context.Background()

	created, err := blogSvc.Create(ctx, primitive.NewObjectID(), services.BlogInput{Title: "Old Title"})
	require.NoError(t, err)

	updated, err := blogSvc.Update(ctx, created.ID.Hex(), services.BlogInput{Title: "New Title"})
	require.NoError(t, err)
	assert.Equal(t, "new-title", updated.Slug)
}

func TestBlogService_Update_JoinsCategories(t *testing.T) {
	blogSvc, catSvc := setupBlogTest(t)
	ctx := context.Background()

	cat, err := catSvc.Create(ctx, services.CategoryInput{Name: "Guides"})
	require.NoError(t, err)

	created, err := blogSvc.Create(ctx, primitive.NewObjectID(), services.BlogInput{
		Title:       "Guide Post",
		CategoryIDs: []string{cat.ID.Hex()},
	})
	require.NoError(t, err)

	joined, err := blogSvc.FindByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	require.Len(t, joined.Categories, 1)
	assert.Equal(t, "Guides", joined.Categories[0].Name)
}

func TestBlogService_IncrementViews(t *testing.T) {
	blogSvc, _ := setupBlogTest(t)
	ctx := context.Background()

	created, err := blogSvc.Create(ctx, primitive.NewObjectID(), services.BlogInput{Title: "Counted"})
	require.NoError(t, err)

	require.NoError(t, blogSvc.IncrementViews(ctx, created.ID.Hex()))
	found, err := blogSvc.FindByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 1, found.Views)
}
