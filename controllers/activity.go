package controllers

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/loveland/klyntfund-go/config"
	models "github.com/loveland/klyntfund-go/models"
)

// logActivity records a dashboard feed entry. Best-effort: a failed write is
// logged and never surfaces to the request that triggered it.
func logActivity(cfg *config.Config, userID primitive.ObjectID, action string, meta map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := models.ActivityLog{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Action:    action,
		Meta:      meta,
		CreatedAt: time.Now(),
	}

	if _, err := cfg.Collection("activitylogs").InsertOne(ctx, entry); err != nil {
		log.Printf("activity log write failed (%s): %v", action, err)
	}
}
