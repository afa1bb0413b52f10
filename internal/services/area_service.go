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
)

// AreaInput carries the fields accepted when creating or updating an area.
// Updates are partial patches, so requiredness is checked in Create rather
// than by binding tags.
type AreaInput struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// IAreaService defines the interface for area operations.
type IAreaService interface {
	Create(ctx context.Context, input AreaInput) (*models.Area, error)
	FindAll(ctx context.Context) ([]models.AreaWithCity, error)
	FindByID(ctx context.Context, id string) (*models.AreaWithCity, error)
	FindByCity(ctx context.Context, cityID string) ([]models.AreaWithCity, error)
	Update(ctx context.Context, id string, input AreaInput) (*models.Area, error)
	Delete(ctx context.Context, id string) error
}

const areasCollection = "areas"

type areaService struct {
	db *mongo.Database
}

// NewAreaService creates a new AreaService.
func NewAreaService(database *mongo.Database) IAreaService {
	return &areaService{db: database}
}

// Create inserts a new area. The city reference is format-checked and then
// existence-checked before the insert.
func (s *areaService) Create(ctx context.Context, input AreaInput) (*models.Area, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: area name is required", ErrInvalidInput)
	}
	cityID, err := primitive.ObjectIDFromHex(input.City)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed city id %q", ErrInvalidInput, input.City)
	}

	count, err := s.db.Collection(citiesCollection).CountDocuments(ctx, bson.M{"_id": cityID})
	if err != nil {
		return nil, fmt.Errorf("failed to check city %s: %w", input.City, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("city %s %w", input.City, ErrNotFound)
	}

	now := time.Now().UTC()
	area := &models.Area{
		ID:        primitive.NewObjectID(),
		Name:      strings.ToLower(strings.TrimSpace(input.Name)),
		CityID:    cityID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.Collection(areasCollection).InsertOne(ctx, area)
	if err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("area %q %w", area.Name, ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert area: %w", err)
	}
	return area, nil
}

// FindAll returns all areas with their city joined.
func (s *areaService) FindAll(ctx context.Context) ([]models.AreaWithCity, error) {
	cursor, err := s.db.Collection(areasCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	defer cursor.Close(ctx)

	var areas []models.Area
	if err = cursor.All(ctx, &areas); err != nil {
		return nil, fmt.Errorf("failed to decode areas: %w", err)
	}
	return s.joinCities(ctx, areas), nil
}

// FindByID returns an area with its city joined.
func (s *areaService) FindByID(ctx context.Context, id string) (*models.AreaWithCity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed area id %q", ErrInvalidInput, id)
	}

	var area models.Area
	err = s.db.Collection(areasCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&area)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("area %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error finding area %s: %w", id, err)
	}

	joined := s.joinCities(ctx, []models.Area{area})
	return &joined[0], nil
}

// FindByCity returns the areas of a city sorted by name. A city with no
// areas yields an empty slice, not an error.
func (s *areaService) FindByCity(ctx context.Context, cityID string) ([]models.AreaWithCity, error) {
	oid, err := primitive.ObjectIDFromHex(cityID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed city id %q", ErrInvalidInput, cityID)
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.db.Collection(areasCollection).Find(ctx, bson.M{"city": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas for city %s: %w", cityID, err)
	}
	defer cursor.Close(ctx)

	var areas []models.Area
	if err = cursor.All(ctx, &areas); err != nil {
		return nil, fmt.Errorf("failed to decode areas for city %s: %w", cityID, err)
	}
	return s.joinCities(ctx, areas), nil
}

// Update applies a partial patch to an area. A new city reference is
// format- and existence-checked like on create.
func (s *areaService) Update(ctx context.Context, id string, input AreaInput) (*models.Area, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed area id %q", ErrInvalidInput, id)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if input.Name != "" {
		set["name"] = strings.ToLower(strings.TrimSpace(input.Name))
	}
	if input.City != "" {
		cityID, err := primitive.ObjectIDFromHex(input.City)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed city id %q", ErrInvalidInput, input.City)
		}
		count, err := s.db.Collection(citiesCollection).CountDocuments(ctx, bson.M{"_id": cityID})
		if err != nil {
			return nil, fmt.Errorf("failed to check city %s: %w", input.City, err)
		}
		if count == 0 {
			return nil, fmt.Errorf("city %s %w", input.City, ErrNotFound)
		}
		set["city"] = cityID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var area models.Area
	err = s.db.Collection(areasCollection).FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&area)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("area %s %w", id, ErrNotFound)
		}
		if db.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("area name %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update area %s: %w", id, err)
	}
	return &area, nil
}

// Delete removes an area.
func (s *areaService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: malformed area id %q", ErrInvalidInput, id)
	}

	result, err := s.db.Collection(areasCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete area %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("area %s %w", id, ErrNotFound)
	}
	return nil
}

// joinCities resolves the city reference of each area in one batched read.
// Areas whose city no longer exists keep a nil City; the read never fails
// because of a broken reference.
func (s *areaService) joinCities(ctx context.Context, areas []models.Area) []models.AreaWithCity {
	joined := make([]models.AreaWithCity, len(areas))
	if len(areas) == 0 {
		return joined
	}

	ids := make([]primitive.ObjectID, 0, len(areas))
	seen := make(map[primitive.ObjectID]bool, len(areas))
	for _, a := range areas {
		if !seen[a.CityID] {
			seen[a.CityID] = true
			ids = append(ids, a.CityID)
		}
	}

	refs := make(map[primitive.ObjectID]*models.CityRef, len(ids))
	opts := options.Find().SetProjection(bson.D{
		{Key: "_id", Value: 1},
		{Key: "name", Value: 1},
		{Key: "state", Value: 1},
		{Key: "country", Value: 1},
	})
	cursor, err := s.db.Collection(citiesCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		log.Printf("Skipping city join for %d areas: %v", len(areas), err)
	} else {
		defer cursor.Close(ctx)
		var cities []models.CityRef
		if err = cursor.All(ctx, &cities); err != nil {
			log.Printf("Skipping city join for %d areas: %v", len(areas), err)
		} else {
			for i := range cities {
				refs[cities[i].ID] = &cities[i]
			}
		}
	}

	for i, a := range areas {
		joined[i] = models.AreaWithCity{Area: a, City: refs[a.CityID]}
	}
	return joined
}
