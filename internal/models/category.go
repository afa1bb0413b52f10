package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a blog category. Categories form a tree via the optional
// parent reference; a category must never be its own parent.
type Category struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string              `bson:"name" json:"name"`
	Slug        string              `bson:"slug" json:"slug"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	ParentID    *primitive.ObjectID `bson:"parent,omitempty" json:"parent,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

// CategoryRef is the projection of a Category embedded into joined
// responses (name/slug only).
type CategoryRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
	Slug string             `bson:"slug" json:"slug"`
}

// CategoryWithParent is a Category with its parent reference resolved.
type CategoryWithParent struct {
	Category `bson:",inline"`
	Parent   *CategoryRef `bson:"-" json:"parentDetails,omitempty"`
}
