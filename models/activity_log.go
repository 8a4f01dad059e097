package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity actions surfaced in the admin dashboard feed.
const (
	ActionSignup           = "signup"
	ActionProjectCreated   = "project_created"
	ActionProjectApproved  = "project_approved"
	ActionProjectRejected  = "project_rejected"
	ActionInvestmentMade   = "investment_made"
	ActionAccountSuspended = "account_suspended"
	ActionAccountApproved  = "account_approved"
)

type ActivityLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Action    string             `bson:"action" json:"action"`
	Meta      map[string]any     `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
