package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles are fixed at registration and gate which dashboard a user reaches.
const (
	RoleCreator  = "creator"
	RoleInvestor = "investor"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName  string             `bson:"full_name" json:"fullName"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"` // creator | investor
	Location  string             `bson:"location,omitempty" json:"location,omitempty"`
	Suspended bool               `bson:"suspended" json:"suspended"`
	Bio       string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Twitter   string             `bson:"twitter,omitempty" json:"twitter,omitempty"`
	LinkedIn  string             `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	ImageURL  string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

func ValidRole(role string) bool {
	return role == RoleCreator || role == RoleInvestor
}
