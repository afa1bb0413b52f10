package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Area represents a neighbourhood within a city. The city reference is
// resolved at read time; deleting a city leaves its areas orphaned.
type Area struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	CityID    primitive.ObjectID `bson:"city" json:"city"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// AreaWithCity is an Area with its city reference resolved. City is nil
// when the referenced document no longer exists.
type AreaWithCity struct {
	Area `bson:",inline"`
	City *CityRef `bson:"-" json:"cityDetails,omitempty"`
}

// CityRef is the projection of a City embedded into joined responses
// (name/state/country only).
type CityRef struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Name    string             `bson:"name" json:"name"`
	State   string             `bson:"state,omitempty" json:"state,omitempty"`
	Country string             `bson:"country,omitempty" json:"country,omitempty"`
}
