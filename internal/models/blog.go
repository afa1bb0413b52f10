package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog post statuses.
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

// ValidBlogStatus reports whether s is one of the blog status values.
func ValidBlogStatus(s string) bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}

// Blog represents a blog post. The slug is unique and derived from the
// title whenever the title changes without an explicit slug.
type Blog struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Title           string               `bson:"title" json:"title"`
	Slug            string               `bson:"slug" json:"slug"`
	Content         string               `bson:"content" json:"content"`
	Excerpt         string               `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	FeaturedImage   string               `bson:"featured_image,omitempty" json:"featuredImage,omitempty"`
	Tags            []string             `bson:"tags" json:"tags"`
	Status          string               `bson:"status" json:"status"`
	Views           int64                `bson:"views" json:"views"`
	AuthorID        primitive.ObjectID   `bson:"author,omitempty" json:"author,omitempty"`
	MetaTitle       string               `bson:"meta_title,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string               `bson:"meta_description,omitempty" json:"metaDescription,omitempty"`
	CanonicalURL    string               `bson:"canonical_url,omitempty" json:"canonicalUrl,omitempty"`
	CategoryIDs     []primitive.ObjectID `bson:"categories,omitempty" json:"categories,omitempty"`
	CreatedAt       time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at" json:"updated_at"`
}

// BlogWithCategories is a Blog with its category references resolved.
// Missing categories are skipped rather than failing the read.
type BlogWithCategories struct {
	Blog       `bson:",inline"`
	Categories []CategoryRef `bson:"-" json:"categoryDetails,omitempty"`
}
