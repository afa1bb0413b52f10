package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property listing types.
const (
	ListingTypeRent = "rent"
	ListingTypeSale = "sale"
)

// Property types.
const (
	PropertyTypeHouse      = "house"
	PropertyTypeApartment  = "apartment"
	PropertyTypeFlat       = "flat"
	PropertyTypeCommercial = "commercial"
)

// Property moderation statuses.
const (
	PropertyStatusPending  = "pending"
	PropertyStatusApproved = "approved"
	PropertyStatusRejected = "rejected"
)

// ValidListingType reports whether s is a known listing type.
func ValidListingType(s string) bool {
	return s == ListingTypeRent || s == ListingTypeSale
}

// ValidPropertyType reports whether s is a known property type.
func ValidPropertyType(s string) bool {
	switch s {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeFlat, PropertyTypeCommercial:
		return true
	}
	return false
}

// ValidPropertyStatus reports whether s is a known moderation status.
func ValidPropertyStatus(s string) bool {
	switch s {
	case PropertyStatusPending, PropertyStatusApproved, PropertyStatusRejected:
		return true
	}
	return false
}

// Property represents a listing submitted for approval. Submissions start
// in pending status and only approved properties appear on the public
// endpoints.
type Property struct {
	ID                   primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	ListingType          string              `bson:"listing_type" json:"listingType"`
	PropertyType         string              `bson:"property_type" json:"propertyType"`
	AreaID               *primitive.ObjectID `bson:"area,omitempty" json:"area,omitempty"`
	Title                string              `bson:"title" json:"title"`
	Slug                 string              `bson:"slug,omitempty" json:"slug,omitempty"`
	Location             string              `bson:"location" json:"location"`
	Bedrooms             int                 `bson:"bedrooms" json:"bedrooms"`
	Bathrooms            int                 `bson:"bathrooms" json:"bathrooms"`
	AreaSize             float64             `bson:"area_size" json:"areaSize"` // sq ft
	Price                float64             `bson:"price" json:"price"`       // PKR
	Description          string              `bson:"description" json:"description"`
	ContactNumber        string              `bson:"contact_number" json:"contactNumber"`
	Features             []string            `bson:"features" json:"features"`
	MainPhotoURL         string              `bson:"main_photo_url,omitempty" json:"mainPhotoUrl,omitempty"`
	AdditionalPhotosURLs []string            `bson:"additional_photos_urls" json:"additionalPhotosUrls"`
	OwnerID              primitive.ObjectID  `bson:"owner,omitempty" json:"owner,omitempty"`
	Status               string              `bson:"status" json:"status"`
	CreatedAt            time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time           `bson:"updated_at" json:"updated_at"`
}

// AreaRef is the projection of an Area embedded into joined property
// responses, itself carrying the resolved city.
type AreaRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
	City *CityRef           `bson:"-" json:"city,omitempty"`
}

// PropertyWithArea is a Property with its area (and transitively city)
// resolved. Area stays nil when the reference is broken; the base document
// is still returned.
type PropertyWithArea struct {
	Property `bson:",inline"`
	Area     *AreaRef `bson:"-" json:"areaDetails,omitempty"`
}
