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

// CategoryInput carries the fields accepted when creating or updating a
// blog category. ParentID distinguishes "not sent" (nil) from an explicit
// null (pointer to empty string), which clears the parent on update.
type CategoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ParentID    *string `json:"parentId"`
}

// ICategoryService defines the interface for blog category operations.
type ICategoryService interface {
	Create(ctx context.Context, input CategoryInput) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.CategoryWithParent, error)
	FindByID(ctx context.Context, id string) (*models.CategoryWithParent, error)
	FindBySlug(ctx context.Context, slug string) (*models.CategoryWithParent, error)
	Update(ctx context.Context, id string, input CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

const categoriesCollection = "categories"

type categoryService struct {
	db *mongo.Database
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(database *mongo.Database) ICategoryService {
	return &categoryService{db: database}
}

// Create inserts a new category. The slug is derived from the name when
// absent; a parent reference must point at an existing category.
func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}

	now := time.Now().UTC()
	category := &models.Category{
		ID:          primitive.NewObjectID(),
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.ParentID != nil && *input.ParentID != "" {
		parentID, err := s.resolveParent(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		category.ParentID = parentID
	}

	_, err := s.db.Collection(categoriesCollection).InsertOne(ctx, category)
	if err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("category name or slug %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return category, nil
}

// FindAll returns all categories with their parents joined.
func (s *categoryService) FindAll(ctx context.Context) ([]models.CategoryWithParent, error) {
	cursor, err := s.db.Collection(categoriesCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return s.joinParents(ctx, categories), nil
}

// FindByID returns a category with its parent joined.
func (s *categoryService) FindByID(ctx context.Context, id string) (*models.CategoryWithParent, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed category id %q", ErrInvalidInput, id)
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// FindBySlug returns a category by its slug with its parent joined.
func (s *categoryService) FindBySlug(ctx context.Context, slug string) (*models.CategoryWithParent, error) {
	return s.findOne(ctx, bson.M{"slug": strings.ToLower(strings.TrimSpace(slug))})
}

func (s *categoryService) findOne(ctx context.Context, filter bson.M) (*models.CategoryWithParent, error) {
	var category models.Category
	err := s.db.Collection(categoriesCollection).FindOne(ctx, filter).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("category %w", ErrNotFound)
		}
		return nil, fmt.Errorf("error finding category: %w", err)
	}
	joined := s.joinParents(ctx, []models.Category{category})
	return &joined[0], nil
}

// Update applies a partial patch. The slug is re-derived when the name
// changes without an explicit slug. ParentID sent as an empty string
// clears the parent; a value is format-checked, self-parenting rejected,
// and existence-checked.
func (s *categoryService) Update(ctx context.Context, id string, input CategoryInput) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed category id %q", ErrInvalidInput, id)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if input.Name != "" {
		set["name"] = strings.TrimSpace(input.Name)
		if input.Slug == "" {
			set["slug"] = utils.Slugify(input.Name)
		}
	}
	if input.Slug != "" {
		set["slug"] = strings.ToLower(strings.TrimSpace(input.Slug))
	}
	if input.Description != "" {
		set["description"] = input.Description
	}

	if input.ParentID != nil {
		if *input.ParentID == "" {
			unset["parent"] = ""
		} else {
			if *input.ParentID == id {
				return nil, fmt.Errorf("%w: a category cannot be its own parent", ErrInvalidInput)
			}
			parentID, err := s.resolveParent(ctx, *input.ParentID)
			if err != nil {
				return nil, err
			}
			set["parent"] = parentID
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var category models.Category
	err = s.db.Collection(categoriesCollection).FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("category %s %w", id, ErrNotFound)
		}
		if db.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("category name or slug %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update category %s: %w", id, err)
	}
	return &category, nil
}

// Delete removes a category.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: malformed category id %q", ErrInvalidInput, id)
	}

	result, err := s.db.Collection(categoriesCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("category %s %w", id, ErrNotFound)
	}
	return nil
}

// resolveParent format-checks a parent id and verifies the parent exists.
func (s *categoryService) resolveParent(ctx context.Context, parentID string) (*primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(parentID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed parent id %q", ErrInvalidInput, parentID)
	}
	count, err := s.db.Collection(categoriesCollection).CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("failed to check parent category %s: %w", parentID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("parent category %s %w", parentID, ErrNotFound)
	}
	return &oid, nil
}

// joinParents resolves parent references (name/slug only) in one batched
// read, skipping categories whose parent no longer exists.
func (s *categoryService) joinParents(ctx context.Context, categories []models.Category) []models.CategoryWithParent {
	joined := make([]models.CategoryWithParent, len(categories))
	if len(categories) == 0 {
		return joined
	}

	var ids []primitive.ObjectID
	for _, c := range categories {
		if c.ParentID != nil {
			ids = append(ids, *c.ParentID)
		}
	}

	refs := make(map[primitive.ObjectID]*models.CategoryRef)
	if len(ids) > 0 {
		opts := options.Find().SetProjection(bson.D{
			{Key: "_id", Value: 1},
			{Key: "name", Value: 1},
			{Key: "slug", Value: 1},
		})
		cursor, err := s.db.Collection(categoriesCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
		if err != nil {
			log.Printf("Skipping parent join for %d categories: %v", len(categories), err)
		} else {
			defer cursor.Close(ctx)
			var parents []models.CategoryRef
			if err = cursor.All(ctx, &parents); err != nil {
				log.Printf("Skipping parent join for %d categories: %v", len(categories), err)
			} else {
				for i := range parents {
					refs[parents[i].ID] = &parents[i]
				}
			}
		}
	}

	for i, c := range categories {
		joined[i] = models.CategoryWithParent{Category: c}
		if c.ParentID != nil {
			joined[i].Parent = refs[*c.ParentID]
		}
	}
	return joined
}
