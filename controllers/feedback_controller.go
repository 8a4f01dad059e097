package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/loveland/klyntfund-go/config"
	models "github.com/loveland/klyntfund-go/models"
)

// ---------------- CREATE ----------------
func CreateFeedback(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Message  string `json:"message" binding:"required"`
			Email    string `json:"email"`
			FullName string `json:"fullName"`
			Type     string `json:"type"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Message is required"})
			return
		}

		fbType := input.Type
		if !models.ValidFeedbackType(fbType) {
			fbType = "Other"
		}

		feedback := models.Feedback{
			ID:        primitive.NewObjectID(),
			Message:   input.Message,
			Email:     input.Email,
			FullName:  input.FullName,
			Type:      fbType,
			CreatedAt: time.Now(),
		}

		// Route is public; a logged-in submitter gets linked to the record.
		if uid := c.GetString("user_id"); uid != "" {
			if userID, err := primitive.ObjectIDFromHex(uid); err == nil {
				feedback.User = userID
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("feedbacks").InsertOne(ctx, feedback); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Feedback submitted successfully",
			"data":    feedback,
		})
	}
}

// ---------------- LIST ----------------
func GetAllFeedbacks(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.M{"created_at": -1})
		cursor, err := cfg.Collection("feedbacks").Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}

		var feedbacks []models.Feedback
		if err := cursor.All(ctx, &feedbacks); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		if feedbacks == nil {
			feedbacks = []models.Feedback{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "feedbacks": feedbacks})
	}
}

// ---------------- GET ----------------
func GetFeedbackByID(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		feedbackID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid feedback id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var feedback models.Feedback
		if err := cfg.Collection("feedbacks").FindOne(ctx, bson.M{"_id": feedbackID}).Decode(&feedback); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Feedback not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": feedback})
	}
}

// ---------------- DELETE ----------------
func DeleteFeedback(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		feedbackID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid feedback id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("feedbacks").DeleteOne(ctx, bson.M{"_id": feedbackID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Feedback not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Feedback deleted successfully"})
	}
}
