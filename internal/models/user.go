package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the minimal account record behind property owners and blog
// authors. Admins moderate listings and manage blog content.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	IsAdmin      bool               `bson:"is_admin" json:"is_admin"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
