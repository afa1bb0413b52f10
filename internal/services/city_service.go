package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/db"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/models"
)

// CityInput carries the fields accepted when creating or updating a city.
// Updates are partial patches, so requiredness is checked in Create rather
// than by binding tags.
type CityInput struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// ICityService defines the interface for city operations.
type ICityService interface {
	Create(ctx context.Context, input CityInput) (*models.City, error)
	FindAll(ctx context.Context) ([]models.City, error)
	FindByID(ctx context.Context, id string) (*models.City, error)
	Update(ctx context.Context, id string, input CityInput) (*models.City, error)
	Delete(ctx context.Context, id string) error
}

const citiesCollection = "cities"

type cityService struct {
	db *mongo.Database
}

// NewCityService creates a new CityService.
func NewCityService(database *mongo.Database) ICityService {
	return &cityService{db: database}
}

// Create inserts a new city. Names are stored lowercased; the unique index
// on name turns case-insensitive duplicates into ErrConflict.
func (s *cityService) Create(ctx context.Context, input CityInput) (*models.City, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: city name is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	city := &models.City{
		ID:        primitive.NewObjectID(),
		Name:      strings.ToLower(strings.TrimSpace(input.Name)),
		State:     strings.ToLower(strings.TrimSpace(input.State)),
		Country:   strings.ToLower(strings.TrimSpace(input.Country)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.Collection(citiesCollection).InsertOne(ctx, city)
	if err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("city %q %w", city.Name, ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert city: %w", err)
	}
	return city, nil
}

// FindAll returns all cities, newest first.
func (s *cityService) FindAll(ctx context.Context) ([]models.City, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(citiesCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer cursor.Close(ctx)

	var cities []models.City
	if err = cursor.All(ctx, &cities); err != nil {
		return nil, fmt.Errorf("failed to decode cities: %w", err)
	}
	return cities, nil
}

// FindByID returns the city with the given hex id.
func (s *cityService) FindByID(ctx context.Context, id string) (*models.City, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed city id %q", ErrInvalidInput, id)
	}

	var city models.City
	err = s.db.Collection(citiesCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&city)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("city %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error finding city %s: %w", id, err)
	}
	return &city, nil
}

// Update applies a partial patch to a city and returns the updated document.
func (s *cityService) Update(ctx context.Context, id string, input CityInput) (*models.City, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed city id %q", ErrInvalidInput, id)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if input.Name != "" {
		set["name"] = strings.ToLower(strings.TrimSpace(input.Name))
	}
	if input.State != "" {
		set["state"] = strings.ToLower(strings.TrimSpace(input.State))
	}
	if input.Country != "" {
		set["country"] = strings.ToLower(strings.TrimSpace(input.Country))
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var city models.City
	err = s.db.Collection(citiesCollection).FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&city)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("city %s %w", id, ErrNotFound)
		}
		if db.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("city name %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update city %s: %w", id, err)
	}
	return &city, nil
}

// Delete removes a city. Dependent areas are left untouched; their city
// references become orphans resolved to nothing at read time.
func (s *cityService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: malformed city id %q", ErrInvalidInput, id)
	}

	result, err := s.db.Collection(citiesCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete city %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("city %s %w", id, ErrNotFound)
	}
	return nil
}
