package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var FeedbackTypes = []string{"Notice", "Warning", "Suspension", "Complaint", "Other"}

type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Message   string             `bson:"message" json:"message"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	FullName  string             `bson:"full_name,omitempty" json:"fullName,omitempty"`
	Type      string             `bson:"type" json:"type"`
	User      primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

func ValidFeedbackType(t string) bool {
	for _, ft := range FeedbackTypes {
		if ft == t {
			return true
		}
	}
	return false
}
