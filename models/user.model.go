package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user in the system
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password,omitempty" json:"-"`
	Role              string             `bson:"role" json:"role"` // "user" or "admin"
	IsVerified        bool               `bson:"is_verified" json:"is_verified"`
	VerificationToken string             `bson:"verification_token" json:"-"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
}

// Profile holds display details for a user, one-to-one with the user
// record (same id). Created as a side effect of registration.
type Profile struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	AvatarURL string             `bson:"avatar_url" json:"avatar_url"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
