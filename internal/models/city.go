package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// City represents a city under which areas and properties are listed.
// The name is stored lowercased and carries a unique index.
type City struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	State     string             `bson:"state,omitempty" json:"state,omitempty"`
	Country   string             `bson:"country,omitempty" json:"country,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
