package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/db"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/models"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/utils"
)

// PropertyInput carries the fields of a property submission. Numeric
// fields arrive as strings from multipart forms and are coerced here.
type PropertyInput struct {
	ListingType   string   `form:"listingType"`
	PropertyType  string   `form:"propertyType"`
	Area          string   `form:"area"`
	Title         string   `form:"title"`
	Slug          string   `form:"slug"`
	Location      string   `form:"location"`
	Bedrooms      string   `form:"bedrooms"`
	Bathrooms     string   `form:"bathrooms"`
	AreaSize      string   `form:"areaSize"`
	Price         string   `form:"price"`
	Description   string   `form:"description"`
	ContactNumber string   `form:"contactNumber"`
	Features      []string `form:"features"`
}

// PropertyFilters restricts property listings. AreaID wins over CityID;
// a CityID is expanded to the ids of its areas.
type PropertyFilters struct {
	AreaID string
	CityID string
}

// IPropertyService defines the interface for property operations.
type IPropertyService interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, input PropertyInput, mainPhotoURL string, additionalPhotosURLs []string) (*models.Property, error)
	FindAllApproved(ctx context.Context, filters PropertyFilters) ([]models.PropertyWithArea, error)
	FindAll(ctx context.Context, filters PropertyFilters) ([]models.PropertyWithArea, error)
	FindByID(ctx context.Context, id string) (*models.PropertyWithArea, error)
	FindBySlug(ctx context.Context, slug string) (*models.PropertyWithArea, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Property, error)
	Update(ctx context.Context, id string, input PropertyInput, mainPhotoURL string, additionalPhotosURLs []string) (*models.Property, error)
	Delete(ctx context.Context, id string) error
	BackfillSlugs(ctx context.Context) (int, error)
	SetPhotoURLs(ctx context.Context, id primitive.ObjectID, mainPhotoURL string, additionalPhotosURLs []string) error
}

const propertiesCollection = "properties"

type propertyService struct {
	db *mongo.Database
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(database *mongo.Database) IPropertyService {
	return &propertyService{db: database}
}

// Create inserts a new property submission in pending status owned by the
// submitting user. The slug falls back from the explicit value to the
// title.
func (s *propertyService) Create(ctx context.Context, ownerID primitive.ObjectID, input PropertyInput, mainPhotoURL string, additionalPhotosURLs []string) (*models.Property, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: property title is required", ErrInvalidInput)
	}
	if !models.ValidListingType(input.ListingType) {
		return nil, fmt.Errorf("%w: unknown listing type %q", ErrInvalidInput, input.ListingType)
	}
	if !models.ValidPropertyType(input.PropertyType) {
		return nil, fmt.Errorf("%w: unknown property type %q", ErrInvalidInput, input.PropertyType)
	}

	areaID, err := s.parseAreaRef(input.Area)
	if err != nil {
		return nil, err
	}

	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(input.Title)
	}

	features := input.Features
	if features == nil {
		features = []string{}
	}
	if additionalPhotosURLs == nil {
		additionalPhotosURLs = []string{}
	}

	now := time.Now().UTC()
	property := &models.Property{
		ID:                   primitive.NewObjectID(),
		ListingType:          input.ListingType,
		PropertyType:         input.PropertyType,
		AreaID:               areaID,
		Title:                strings.TrimSpace(input.Title),
		Slug:                 slug,
		Location:             strings.TrimSpace(input.Location),
		Bedrooms:             coerceInt(input.Bedrooms),
		Bathrooms:            coerceInt(input.Bathrooms),
		AreaSize:             coerceFloat(input.AreaSize),
		Price:                coerceFloat(input.Price),
		Description:          input.Description,
		ContactNumber:        strings.TrimSpace(input.ContactNumber),
		Features:             features,
		MainPhotoURL:         mainPhotoURL,
		AdditionalPhotosURLs: additionalPhotosURLs,
		OwnerID:              ownerID,
		Status:               models.PropertyStatusPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err = db.Try(func() error {
		_, insertErr := s.db.Collection(propertiesCollection).InsertOne(ctx, property)
		return insertErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert property %s: %w", property.ID.Hex(), err)
	}
	return property, nil
}

// FindAllApproved returns approved properties matching the filters, with
// area and city joined.
func (s *propertyService) FindAllApproved(ctx context.Context, filters PropertyFilters) ([]models.PropertyWithArea, error) {
	return s.findFiltered(ctx, bson.M{"status": models.PropertyStatusApproved}, filters)
}

// FindAll returns properties of every status matching the filters, with
// area and city joined. Used by the moderation dashboard.
func (s *propertyService) FindAll(ctx context.Context, filters PropertyFilters) ([]models.PropertyWithArea, error) {
	return s.findFiltered(ctx, bson.M{}, filters)
}

func (s *propertyService) findFiltered(ctx context.Context, filter bson.M, filters PropertyFilters) ([]models.PropertyWithArea, error) {
	if filters.AreaID != "" {
		areaID, err := primitive.ObjectIDFromHex(filters.AreaID)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed area id %q", ErrInvalidInput, filters.AreaID)
		}
		filter["area"] = areaID
	} else if filters.CityID != "" {
		cityID, err := primitive.ObjectIDFromHex(filters.CityID)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed city id %q", ErrInvalidInput, filters.CityID)
		}
		areaIDs, err := s.areaIDsForCity(ctx, cityID)
		if err != nil {
			return nil, err
		}
		// A city with no areas matches nothing.
		filter["area"] = bson.M{"$in": areaIDs}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(propertiesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err = cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return s.joinAreas(ctx, properties), nil
}

// FindByID returns a property with its area and city joined. A populate
// failure degrades to the unpopulated document.
func (s *propertyService) FindByID(ctx context.Context, id string) (*models.PropertyWithArea, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed property id %q", ErrInvalidInput, id)
	}

	var property models.Property
	err = s.db.Collection(propertiesCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("property %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error finding property %s: %w", id, err)
	}
	joined := s.joinAreas(ctx, []models.Property{property})
	return &joined[0], nil
}

// FindBySlug looks up an approved property by slug. On a miss it runs the
// slug backfill once and retries before giving up, so legacy documents
// whose slug was never derived still resolve.
func (s *propertyService) FindBySlug(ctx context.Context, slug string) (*models.PropertyWithArea, error) {
	slug = utils.Slugify(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: empty slug", ErrInvalidInput)
	}

	filter := bson.M{"slug": slug, "status": models.PropertyStatusApproved}

	var property models.Property
	err := s.db.Collection(propertiesCollection).FindOne(ctx, filter).Decode(&property)
	if err == nil {
		joined := s.joinAreas(ctx, []models.Property{property})
		return &joined[0], nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("error finding property by slug %q: %w", slug, err)
	}

	if n, backfillErr := s.BackfillSlugs(ctx); backfillErr != nil {
		log.Printf("Slug backfill during lookup of %q failed: %v", slug, backfillErr)
	} else if n > 0 {
		err = s.db.Collection(propertiesCollection).FindOne(ctx, filter).Decode(&property)
		if err == nil {
			joined := s.joinAreas(ctx, []models.Property{property})
			return &joined[0], nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("error finding property by slug %q: %w", slug, err)
		}
	}

	return nil, fmt.Errorf("property %q %w", slug, ErrNotFound)
}

// UpdateStatus transitions a property to the given moderation status.
// A missing property is an error, not a silent no-op.
func (s *propertyService) UpdateStatus(ctx context.Context, id, status string) (*models.Property, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed property id %q", ErrInvalidInput, id)
	}
	if !models.ValidPropertyStatus(status) {
		return nil, fmt.Errorf("%w: unknown property status %q", ErrInvalidInput, status)
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var property models.Property
	err = s.db.Collection(propertiesCollection).FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("property %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update status of property %s: %w", id, err)
	}
	return &property, nil
}

// Update applies a partial patch. The slug is re-derived only when a slug
// or title is supplied; photo URLs are replaced only when new ones are
// passed.
func (s *propertyService) Update(ctx context.Context, id string, input PropertyInput, mainPhotoURL string, additionalPhotosURLs []string) (*models.Property, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed property id %q", ErrInvalidInput, id)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if input.ListingType != "" {
		if !models.ValidListingType(input.ListingType) {
			return nil, fmt.Errorf("%w: unknown listing type %q", ErrInvalidInput, input.ListingType)
		}
		set["listing_type"] = input.ListingType
	}
	if input.PropertyType != "" {
		if !models.ValidPropertyType(input.PropertyType) {
			return nil, fmt.Errorf("%w: unknown property type %q", ErrInvalidInput, input.PropertyType)
		}
		set["property_type"] = input.PropertyType
	}
	if input.Area != "" {
		areaID, err := s.parseAreaRef(input.Area)
		if err != nil {
			return nil, err
		}
		set["area"] = areaID
	}
	if input.Title != "" {
		set["title"] = strings.TrimSpace(input.Title)
	}
	if input.Slug != "" || input.Title != "" {
		slug := utils.Slugify(input.Slug)
		if slug == "" {
			slug = utils.Slugify(input.Title)
		}
		set["slug"] = slug
	}
	if input.Location != "" {
		set["location"] = strings.TrimSpace(input.Location)
	}
	if input.Bedrooms != "" {
		set["bedrooms"] = coerceInt(input.Bedrooms)
	}
	if input.Bathrooms != "" {
		set["bathrooms"] = coerceInt(input.Bathrooms)
	}
	if input.AreaSize != "" {
		set["area_size"] = coerceFloat(input.AreaSize)
	}
	if input.Price != "" {
		set["price"] = coerceFloat(input.Price)
	}
	if input.Description != "" {
		set["description"] = input.Description
	}
	if input.ContactNumber != "" {
		set["contact_number"] = strings.TrimSpace(input.ContactNumber)
	}
	if input.Features != nil {
		set["features"] = input.Features
	}
	if mainPhotoURL != "" {
		set["main_photo_url"] = mainPhotoURL
	}
	if len(additionalPhotosURLs) > 0 {
		set["additional_photos_urls"] = additionalPhotosURLs
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var property models.Property
	err = s.db.Collection(propertiesCollection).FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("property %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update property %s: %w", id, err)
	}
	return &property, nil
}

// Delete removes a property.
func (s *propertyService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: malformed property id %q", ErrInvalidInput, id)
	}

	result, err := s.db.Collection(propertiesCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("property %s %w", id, ErrNotFound)
	}
	return nil
}

// BackfillSlugs derives and persists slugs for approved properties that
// have a title but no slug. Each update touches a disjoint document, so
// they run concurrently. Returns the number of documents updated.
func (s *propertyService) BackfillSlugs(ctx context.Context) (int, error) {
	filter := bson.M{
		"status": models.PropertyStatusApproved,
		"title":  bson.M{"$nin": bson.A{nil, ""}},
		"$or": bson.A{
			bson.M{"slug": bson.M{"$exists": false}},
			bson.M{"slug": ""},
		},
	}

	cursor, err := s.db.Collection(propertiesCollection).Find(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to find properties missing slugs: %w", err)
	}
	defer cursor.Close(ctx)

	var missing []models.Property
	if err = cursor.All(ctx, &missing); err != nil {
		return 0, fmt.Errorf("failed to decode properties missing slugs: %w", err)
	}
	if len(missing) == 0 {
		return 0, nil
	}

	var wg sync.WaitGroup
	updated := 0
	var mu sync.Mutex
	for _, p := range missing {
		wg.Add(1)
		go func(p models.Property) {
			defer wg.Done()
			slug := utils.Slugify(p.Title)
			if slug == "" {
				return
			}
			update := bson.M{"$set": bson.M{"slug": slug, "updated_at": time.Now().UTC()}}
			err := db.Try(func() error {
				_, updErr := s.db.Collection(propertiesCollection).UpdateByID(ctx, p.ID, update)
				return updErr
			})
			if err != nil {
				log.Printf("Failed to backfill slug for property %s: %v", p.ID.Hex(), err)
				return
			}
			mu.Lock()
			updated++
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	return updated, nil
}

// SetPhotoURLs swaps the photo URLs of a property. Used by the image
// processing task after a resized upload replaces the original.
func (s *propertyService) SetPhotoURLs(ctx context.Context, id primitive.ObjectID, mainPhotoURL string, additionalPhotosURLs []string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if mainPhotoURL != "" {
		set["main_photo_url"] = mainPhotoURL
	}
	if additionalPhotosURLs != nil {
		set["additional_photos_urls"] = additionalPhotosURLs
	}

	result, err := s.db.Collection(propertiesCollection).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to set photo URLs for property %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("property %s %w", id.Hex(), ErrNotFound)
	}
	return nil
}

// parseAreaRef accepts an empty reference (no area) or a hex ObjectID.
func (s *propertyService) parseAreaRef(ref string) (*primitive.ObjectID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed area id %q", ErrInvalidInput, ref)
	}
	return &oid, nil
}

// areaIDsForCity resolves a city to the ids of its areas.
func (s *propertyService) areaIDsForCity(ctx context.Context, cityID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.db.Collection(areasCollection).Find(ctx, bson.M{"city": cityID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve areas for city %s: %w", cityID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode areas for city %s: %w", cityID.Hex(), err)
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// joinAreas resolves the area (and transitively the city) of each
// property in two batched reads. A broken reference leaves the base
// document intact with a nil Area.
func (s *propertyService) joinAreas(ctx context.Context, properties []models.Property) []models.PropertyWithArea {
	joined := make([]models.PropertyWithArea, len(properties))
	if len(properties) == 0 {
		return joined
	}

	var areaIDs []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for _, p := range properties {
		if p.AreaID != nil && !seen[*p.AreaID] {
			seen[*p.AreaID] = true
			areaIDs = append(areaIDs, *p.AreaID)
		}
	}

	areaRefs := make(map[primitive.ObjectID]*models.AreaRef)
	if len(areaIDs) > 0 {
		cursor, err := s.db.Collection(areasCollection).Find(ctx, bson.M{"_id": bson.M{"$in": areaIDs}})
		if err != nil {
			log.Printf("Skipping area join for %d properties: %v", len(properties), err)
		} else {
			defer cursor.Close(ctx)
			var areas []models.Area
			if err = cursor.All(ctx, &areas); err != nil {
				log.Printf("Skipping area join for %d properties: %v", len(properties), err)
				areas = nil
			}

			var cityIDs []primitive.ObjectID
			seenCity := make(map[primitive.ObjectID]bool)
			for _, a := range areas {
				if !seenCity[a.CityID] {
					seenCity[a.CityID] = true
					cityIDs = append(cityIDs, a.CityID)
				}
			}

			cityRefs := make(map[primitive.ObjectID]*models.CityRef)
			if len(cityIDs) > 0 {
				opts := options.Find().SetProjection(bson.D{
					{Key: "_id", Value: 1},
					{Key: "name", Value: 1},
					{Key: "state", Value: 1},
					{Key: "country", Value: 1},
				})
				cityCursor, err := s.db.Collection(citiesCollection).Find(ctx, bson.M{"_id": bson.M{"$in": cityIDs}}, opts)
				if err != nil {
					log.Printf("Skipping city join for %d areas: %v", len(areas), err)
				} else {
					defer cityCursor.Close(ctx)
					var cities []models.CityRef
					if err = cityCursor.All(ctx, &cities); err != nil {
						log.Printf("Skipping city join for %d areas: %v", len(areas), err)
					} else {
						for i := range cities {
							cityRefs[cities[i].ID] = &cities[i]
						}
					}
				}
			}

			for _, a := range areas {
				areaRefs[a.ID] = &models.AreaRef{ID: a.ID, Name: a.Name, City: cityRefs[a.CityID]}
			}
		}
	}

	for i, p := range properties {
		joined[i] = models.PropertyWithArea{Property: p}
		if p.AreaID != nil {
			joined[i].Area = areaRefs[*p.AreaID]
		}
	}
	return joined
}

// coerceInt parses a form-field integer, tolerating junk as zero the way
// the submission form always has.
func coerceInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func coerceFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	// ParseFloat accepts "nan" and "inf", which encoding/json cannot
	// marshal; treat them as junk too.
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
