package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogPost represents an article on the storefront blog. Unpublished posts
// are visible only through the admin endpoints.
type BlogPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Excerpt   string             `bson:"excerpt" json:"excerpt"`
	Category  string             `bson:"category" json:"category"`
	Published bool               `bson:"published" json:"published"`
	ImageURL  string             `bson:"image_url" json:"image_url"`
	AuthorID  primitive.ObjectID `bson:"author_id,omitempty" json:"author_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
