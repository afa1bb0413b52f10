package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/db"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/models"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/utils"
)

const maxMetaDescriptionLen = 160

// BlogInput carries the fields accepted when creating or updating a post.
type BlogInput struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Content         string   `json:"content"`
	Excerpt         string   `json:"excerpt"`
	FeaturedImage   string   `json:"featuredImage"`
	Tags            []string `json:"tags"`
	Status          string   `json:"status"`
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	CanonicalURL    string   `json:"canonicalUrl"`
	CategoryIDs     []string `json:"categories"`
}

// IBlogService defines the interface for blog post operations.
type IBlogService interface {
	Create(ctx context.Context, authorID primitive.ObjectID, input BlogInput) (*models.Blog, error)
	FindPublished(ctx context.Context) ([]models.BlogWithCategories, error)
	FindAll(ctx context.Context, status string) ([]models.BlogWithCategories, error)
	FindByID(ctx context.Context, id string) (*models.BlogWithCategories, error)
	FindBySlug(ctx context.Context, slug string) (*models.BlogWithCategories, error)
	IncrementViews(ctx context.Context, id string) error
	Update(ctx context.Context, id string, input BlogInput) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
}

const blogsCollection = "blogs"

type blogService struct {
	db *mongo.Database
}

// NewBlogService creates a new BlogService.
func NewBlogService(database *mongo.Database) IBlogService {
	return &blogService{db: database}
}

// Create inserts a new post. The slug is derived from the title when
// absent; a draft status is the default.
func (s *blogService) Create(ctx context.Context, authorID primitive.ObjectID, input BlogInput) (*models.Blog, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: blog title is required", ErrInvalidInput)
	}
	if len(input.MetaDescription) > maxMetaDescriptionLen {
		return nil, fmt.Errorf("%w: meta description exceeds %d characters", ErrInvalidInput, maxMetaDescriptionLen)
	}

	status := input.Status
	if status == "" {
		status = models.BlogStatusDraft
	}
	if !models.ValidBlogStatus(status) {
		return nil, fmt.Errorf("%w: unknown blog status %q", ErrInvalidInput, status)
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		slug = utils.Slugify(input.Title)
	}

	categoryIDs, err := s.resolveCategories(ctx, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	blog := &models.Blog{
		ID:              primitive.NewObjectID(),
		Title:           strings.TrimSpace(input.Title),
		Slug:            slug,
		Content:         input.Content,
		Excerpt:         input.Excerpt,
		FeaturedImage:   input.FeaturedImage,
		Tags:            tags,
		Status:          status,
		Views:           0,
		AuthorID:        authorID,
		MetaTitle:       input.MetaTitle,
		MetaDescription: input.MetaDescription,
		CanonicalURL:    input.CanonicalURL,
		CategoryIDs:     categoryIDs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err = s.db.Collection(blogsCollection).InsertOne(ctx, blog)
	if err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("blog slug %q %w", slug, ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert blog: %w", err)
	}
	return blog, nil
}

// FindPublished returns published posts, newest first.
func (s *blogService) FindPublished(ctx context.Context) ([]models.BlogWithCategories, error) {
	return s.findMany(ctx, bson.M{"status": models.BlogStatusPublished})
}

// FindAll returns all posts, optionally filtered by status, newest first.
func (s *blogService) FindAll(ctx context.Context, status string) ([]models.BlogWithCategories, error) {
	filter := bson.M{}
	if status != "" {
		if !models.ValidBlogStatus(status) {
			return nil, fmt.Errorf("%w: unknown blog status %q", ErrInvalidInput, status)
		}
		filter["status"] = status
	}
	return s.findMany(ctx, filter)
}

func (s *blogService) findMany(ctx context.Context, filter bson.M) ([]models.BlogWithCategories, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(blogsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer cursor.Close(ctx)

	var blogs []models.Blog
	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("failed to decode blogs: %w", err)
	}
	return s.joinCategories(ctx, blogs), nil
}

// FindByID returns a post with its categories joined.
func (s *blogService) FindByID(ctx context.Context, id string) (*models.BlogWithCategories, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed blog id %q", ErrInvalidInput, id)
	}

	var blog models.Blog
	err = s.db.Collection(blogsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("blog %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error finding blog %s: %w", id, err)
	}
	joined := s.joinCategories(ctx, []models.Blog{blog})
	return &joined[0], nil
}

// FindBySlug returns a published post by slug and increments its view
// counter as a side effect of the fetch.
func (s *blogService) FindBySlug(ctx context.Context, slug string) (*models.BlogWithCategories, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"slug": slug, "status": models.BlogStatusPublished}

	var blog models.Blog
	err := s.db.Collection(blogsCollection).FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("blog %q %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("error finding blog by slug %q: %w", slug, err)
	}
	joined := s.joinCategories(ctx, []models.Blog{blog})
	return &joined[0], nil
}

// IncrementViews bumps a post's view counter by one.
func (s *blogService) IncrementViews(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: malformed blog id %q", ErrInvalidInput, id)
	}

	result, err := s.db.Collection(blogsCollection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("failed to increment views for blog %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("blog %s %w", id, ErrNotFound)
	}
	return nil
}

// Update applies a partial patch. The slug is re-derived when the title
// changes without an explicit slug.
func (s *blogService) Update(ctx context.Context, id string, input BlogInput) (*models.Blog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed blog id %q", ErrInvalidInput, id)
	}
	if len(input.MetaDescription) > maxMetaDescriptionLen {
		return nil, fmt.Errorf("%w: meta description exceeds %d characters", ErrInvalidInput, maxMetaDescriptionLen)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if input.Title != "" {
		set["title"] = strings.TrimSpace(input.Title)
		if input.Slug == "" {
			set["slug"] = utils.Slugify(input.Title)
		}
	}
	if input.Slug != "" {
		set["slug"] = strings.ToLower(strings.TrimSpace(input.Slug))
	}
	if input.Content != "" {
		set["content"] = input.Content
	}
	if input.Excerpt != "" {
		set["excerpt"] = input.Excerpt
	}
	if input.FeaturedImage != "" {
		set["featured_image"] = input.FeaturedImage
	}
	if input.Tags != nil {
		set["tags"] = input.Tags
	}
	if input.Status != "" {
		if !models.ValidBlogStatus(input.Status) {
			return nil, fmt.Errorf("%w: unknown blog status %q", ErrInvalidInput, input.Status)
		}
		set["status"] = input.Status
	}
	if input.MetaTitle != "" {
		set["meta_title"] = input.MetaTitle
	}
	if input.MetaDescription != "" {
		set["meta_description"] = input.MetaDescription
	}
	if input.CanonicalURL != "" {
		set["canonical_url"] = input.CanonicalURL
	}
	if input.CategoryIDs != nil {
		categoryIDs, err := s.resolveCategories(ctx, input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		set["categories"] = categoryIDs
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var blog models.Blog
	err = s.db.Collection(blogsCollection).FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("blog %s %w", id, ErrNotFound)
		}
		if db.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("blog slug %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update blog %s: %w", id, err)
	}
	return &blog, nil
}

// Delete removes a post.
func (s *blogService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: malformed blog id %q", ErrInvalidInput, id)
	}

	result, err := s.db.Collection(blogsCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete blog %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("blog %s %w", id, ErrNotFound)
	}
	return nil
}

// resolveCategories format-checks category ids and verifies every
// referenced category exists, preserving order.
func (s *blogService) resolveCategories(ctx context.Context, ids []string) ([]primitive.ObjectID, error) {
	resolved := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed category id %q", ErrInvalidInput, id)
		}
		resolved = append(resolved, oid)
	}
	if len(resolved) == 0 {
		return resolved, nil
	}
	unique := dedupeObjectIDs(resolved)
	count, err := s.db.Collection(categoriesCollection).CountDocuments(ctx, bson.M{"_id": bson.M{"$in": unique}})
	if err != nil {
		return nil, fmt.Errorf("failed to check blog categories: %w", err)
	}
	if int(count) != len(unique) {
		return nil, fmt.Errorf("blog category %w", ErrNotFound)
	}
	return resolved, nil
}

func dedupeObjectIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	unique := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

// joinCategories resolves category references (name/slug only) in one
// batched read, skipping references that no longer resolve.
func (s *blogService) joinCategories(ctx context.Context, blogs []models.Blog) []models.BlogWithCategories {
	joined := make([]models.BlogWithCategories, len(blogs))
	if len(blogs) == 0 {
		return joined
	}

	var ids []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for _, b := range blogs {
		for _, cid := range b.CategoryIDs {
			if !seen[cid] {
				seen[cid] = true
				ids = append(ids, cid)
			}
		}
	}

	refs := make(map[primitive.ObjectID]models.CategoryRef)
	if len(ids) > 0 {
		opts := options.Find().SetProjection(bson.D{
			{Key: "_id", Value: 1},
			{Key: "name", Value: 1},
			{Key: "slug", Value: 1},
		})
		cursor, err := s.db.Collection(categoriesCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
		if err != nil {
			log.Printf("Skipping category join for %d blogs: %v", len(blogs), err)
		} else {
			defer cursor.Close(ctx)
			var categories []models.CategoryRef
			if err = cursor.All(ctx, &categories); err != nil {
				log.Printf("Skipping category join for %d blogs: %v", len(blogs), err)
			} else {
				for _, c := range categories {
					refs[c.ID] = c
				}
			}
		}
	}

	for i, b := range blogs {
		joined[i] = models.BlogWithCategories{Blog: b}
		for _, cid := range b.CategoryIDs {
			if ref, ok := refs[cid]; ok {
				joined[i].Categories = append(joined[i].Categories, ref)
			}
		}
	}
	return joined
}
