package controllers

import (
	"context"
	"log"
	"net/http"
	"net/mail"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	config "github.com/loveland/klyntfund-go/config"
	models "github.com/loveland/klyntfund-go/models"
	utils "github.com/loveland/klyntfund-go/utils"
)

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			FullName string `json:"fullName" binding:"required"`
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
			Role     string `json:"role" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing details"})
			return
		}
		if !validEmail(input.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "enter a valid email"})
			return
		}
		if len(input.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "enter a strong password (8+ characters)"})
			return
		}
		if !models.ValidRole(input.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		count, err := col.CountDocuments(ctx, bson.M{"email": input.Email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user with this email already exists"})
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
			return
		}

		user := models.User{
			ID:        primitive.NewObjectID(),
			FullName:  input.FullName,
			Email:     input.Email,
			Password:  string(hashed),
			Role:      input.Role,
			CreatedAt: time.Now(),
		}

		if _, err := col.InsertOne(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
			return
		}

		token, err := utils.SignUserToken(cfg.JWTSecret, user.ID.Hex(), user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
			return
		}

		go logActivity(cfg, user.ID, models.ActionSignup, map[string]any{"role": user.Role})

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"token":   token,
			"userData": gin.H{
				"id":    user.ID.Hex(),
				"name":  user.FullName,
				"email": user.Email,
				"role":  user.Role,
			},
		})
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing details"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		err := cfg.Collection("users").FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found, please register to login"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}

		if user.Suspended {
			go func() {
				if err := utils.SendEmail(utils.EmailParams{
					To:          user.Email,
					ToName:      user.FullName,
					Subject:     "Account Suspended - Login Attempt Blocked",
					Text:        "Hello " + user.FullName + ",\n\nYou recently attempted to log in, but your account is currently suspended. Please contact our support team for assistance.",
					HeaderColor: "#DC2626",
				}); err != nil {
					log.Printf("suspension notice email failed: %v", err)
				}
			}()
			c.JSON(http.StatusForbidden, gin.H{"error": "your account is suspended, please check your email or contact support"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := utils.SignUserToken(cfg.JWTSecret, user.ID.Hex(), user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"token":   token,
			"userData": gin.H{
				"id":    user.ID.Hex(),
				"name":  user.FullName,
				"email": user.Email,
				"role":  user.Role,
			},
		})
	}
}

// ---------------- PROFILE ----------------
func GetUserProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "userData": user})
	}
}

// ---------------- UPDATE PROFILE ----------------
func UpdateProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			FullName string `form:"fullName"`
			Email    string `form:"email"`
			Location string `form:"location"`
			Bio      string `form:"bio"`
			Twitter  string `form:"twitter"`
			LinkedIn string `form:"linkedin"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.FullName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fullName is required"})
			return
		}
		if !validEmail(input.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email is required"})
			return
		}

		update := bson.M{
			"full_name": input.FullName,
			"email":     input.Email,
		}
		if input.Location != "" {
			update["location"] = input.Location
		}
		if input.Bio != "" {
			update["bio"] = input.Bio
		}
		if input.Twitter != "" {
			update["twitter"] = input.Twitter
		}
		if input.LinkedIn != "" {
			update["linkedin"] = input.LinkedIn
		}

		// Optional profile image upload
		if fileHeader, err := c.FormFile("profileImage"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open image"})
				return
			}
			url, err := utils.UploadProfileImage(file)
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
				return
			}
			update["image_url"] = url
		}

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
			return
		}

		var updated models.User
		if err := col.FindOne(ctx, bson.M{"_id": userID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated profile"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Profile updated successfully",
			"user":    updated,
		})
	}
}
