package controllers

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/loveland/klyntfund-go/config"
	models "github.com/loveland/klyntfund-go/models"
	utils "github.com/loveland/klyntfund-go/utils"
)

// projectView is a project plus the derived fields the dashboards render.
type projectView struct {
	models.Project
	DaysLeft         int     `json:"daysLeft"`
	AmountRaised     float64 `json:"amountRaised"`
	PercentageFunded int     `json:"percentageFunded"`
	InvestorCount    int     `json:"investorCount"`
}

func enhanceProject(p models.Project, now time.Time) projectView {
	return projectView{
		Project:          p,
		DaysLeft:         p.DaysLeft(now),
		AmountRaised:     p.CurrentFunding,
		PercentageFunded: int(math.Round(p.PercentageFunded())),
		InvestorCount:    len(p.Investors),
	}
}

// markCompletedIfFunded flips an approved project to completed once funding
// reaches the goal. The status filter makes the update a no-op when an admin
// action got there first.
func markCompletedIfFunded(ctx context.Context, cfg *config.Config, p *models.Project) {
	if p.CurrentFunding < p.Goal || !models.CanTransition(p.Status, models.StatusCompleted) {
		return
	}
	now := time.Now()
	_, err := cfg.Collection("projects").UpdateOne(ctx,
		bson.M{"_id": p.ID, "status": models.StatusApproved},
		bson.M{"$set": bson.M{
			"status":       models.StatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		}},
	)
	if err != nil {
		log.Printf("auto-complete update failed for project %s: %v", p.ID.Hex(), err)
		return
	}
	p.Status = models.StatusCompleted
	p.CompletedAt = &now
}

// ---------------- CREATE ----------------
func AddProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			Title           string   `form:"title" binding:"required"`
			Category        string   `form:"category" binding:"required"`
			Pitch           string   `form:"pitch" binding:"required"`
			Location        string   `form:"location" binding:"required"`
			Overview        string   `form:"overview" binding:"required"`
			ProblemSolution string   `form:"problemSolution" binding:"required"`
			Goal            float64  `form:"goal" binding:"required"`
			Duration        int      `form:"duration" binding:"required"`
			MinInvestment   float64  `form:"minInvestment" binding:"required"`
			Impact          []string `form:"impact" binding:"required"`
			ReturnRate      float64  `form:"returnRate" binding:"required"`
			RepaymentPeriod int      `form:"repaymentPeriod" binding:"required"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		fileHeader, err := c.FormFile("thumbnail")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project thumbnail is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
			return
		}
		thumbnail, err := utils.UploadProjectThumbnail(file)
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "thumbnail upload failed",
				"details": err.Error(),
				"file":    fileHeader.Filename,
			})
			return
		}

		now := time.Now()
		project := models.Project{
			ID:              primitive.NewObjectID(),
			Title:           input.Title,
			Category:        input.Category,
			Thumbnail:       thumbnail,
			Pitch:           input.Pitch,
			Location:        input.Location,
			Overview:        input.Overview,
			ProblemSolution: input.ProblemSolution,
			Goal:            input.Goal,
			Duration:        input.Duration,
			MinInvestment:   input.MinInvestment,
			Impact:          input.Impact,
			Creator:         userID,
			Status:          models.StatusPending,
			Investors:       []models.Investment{},
			ReturnRate:      input.ReturnRate,
			RepaymentPeriod: input.RepaymentPeriod,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		col := cfg.Collection("projects")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, project); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create project"})
			return
		}

		go logActivity(cfg, userID, models.ActionProjectCreated, map[string]any{"project": project.Title})

		// Notify the admin that a new project awaits review.
		go func() {
			if cfg.AdminEmail == "" {
				return
			}
			text := fmt.Sprintf(
				"A new project titled %q has been uploaded and is awaiting review.\n\nCategory: %s\nLocation: %s\nGoal: %.2f\nDuration: %d days\nMin. Investment: %.2f\nReturn Rate: %.1f%%\nRepayment Period: %d months",
				project.Title, project.Category, project.Location, project.Goal,
				project.Duration, project.MinInvestment, project.ReturnRate, project.RepaymentPeriod,
			)
			if err := utils.SendEmail(utils.EmailParams{
				To:      cfg.AdminEmail,
				ToName:  "Admin",
				Subject: "New Project Uploaded - Approval Required",
				Text:    text,
			}); err != nil {
				log.Printf("admin notification email failed: %v", err)
			}
		}()

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Project created successfully",
			"project": project,
		})
	}
}

// ---------------- MY PROJECTS ----------------
func MyProjects(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.M{"created_at": -1})
		cursor, err := cfg.Collection("projects").Find(ctx, bson.M{"creator": userID}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch projects"})
			return
		}

		var projects []models.Project
		if err := cursor.All(ctx, &projects); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode projects"})
			return
		}

		now := time.Now()
		views := make([]projectView, 0, len(projects))
		for _, p := range projects {
			views = append(views, enhanceProject(p, now))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "Projects fetched successfully",
			"projects": views,
		})
	}
}

// ---------------- CREATOR DASHBOARD ----------------
func CreatorDashboard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("projects").Find(ctx, bson.M{"creator": userID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch projects"})
			return
		}

		var projects []models.Project
		if err := cursor.All(ctx, &projects); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode projects"})
			return
		}

		now := time.Now()
		var totalRaised float64
		var completed, active int
		investorSet := map[string]struct{}{}

		for _, p := range projects {
			totalRaised += p.CurrentFunding
			for _, inv := range p.Investors {
				investorSet[inv.Investor.Hex()] = struct{}{}
			}

			fullyFunded := p.CurrentFunding >= p.Goal
			timeOver := p.DaysLeft(now) == 0
			if fullyFunded || timeOver {
				completed++
			} else {
				active++
			}
		}

		var averageFunding float64
		if len(projects) > 0 {
			averageFunding = totalRaised / float64(len(projects))
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"dashStats": gin.H{
				"totalProjects":      len(projects),
				"totalRaised":        totalRaised,
				"activeCampaigns":    active,
				"completedCampaigns": completed,
				"totalInvestors":     len(investorSet),
				"averageFunding":     averageFunding,
			},
		})
	}
}

// ---------------- PUBLIC LIST ----------------
func GetAllProjects(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.M{"created_at": -1})
		cursor, err := cfg.Collection("projects").Find(ctx,
			bson.M{"status": models.StatusApproved}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch projects"})
			return
		}

		var projects []models.Project
		if err := cursor.All(ctx, &projects); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode projects"})
			return
		}

		now := time.Now()
		views := make([]projectView, 0, len(projects))
		var latest models.Project
		for i := range projects {
			markCompletedIfFunded(ctx, cfg, &projects[i])
			if projects[i].Status == models.StatusCompleted {
				continue
			}
			if projects[i].UpdatedAt.After(latest.UpdatedAt) {
				latest = projects[i]
			}
			views = append(views, enhanceProject(projects[i], now))
		}

		if len(views) > 0 {
			etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
			if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
				c.Status(http.StatusNotModified)
				return
			}
			c.Header("ETag", etag)
			c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "Projects fetched successfully",
			"projects": views,
		})
	}
}

// ---------------- VIEW ----------------
func ViewProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var project models.Project
		if err := cfg.Collection("projects").FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}

		etag := utils.GenerateETag(project.ID, project.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Project fetched successfully",
			"project": enhanceProject(project, time.Now()),
		})
	}
}

// GetProjectByID returns the raw document without derived fields.
func GetProjectByID(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var project models.Project
		if err := cfg.Collection("projects").FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "project": project})
	}
}

// ---------------- EDIT ----------------
func EditProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}
		projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}

		col := cfg.Collection("projects")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Project
		if err := col.FindOne(ctx, bson.M{"_id": projectID, "creator": userID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found or unauthorized"})
			return
		}

		var input struct {
			Title           string   `form:"title"`
			Category        string   `form:"category"`
			Pitch           string   `form:"pitch"`
			Location        string   `form:"location"`
			Overview        string   `form:"overview"`
			ProblemSolution string   `form:"problemSolution"`
			Goal            float64  `form:"goal"`
			Duration        int      `form:"duration"`
			MinInvestment   float64  `form:"minInvestment"`
			Impact          []string `form:"impact"`
			ReturnRate      float64  `form:"returnRate"`
			RepaymentPeriod int      `form:"repaymentPeriod"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Category != "" {
			update["category"] = input.Category
		}
		if input.Pitch != "" {
			update["pitch"] = input.Pitch
		}
		if input.Location != "" {
			update["location"] = input.Location
		}
		if input.Overview != "" {
			update["overview"] = input.Overview
		}
		if input.ProblemSolution != "" {
			update["problem_solution"] = input.ProblemSolution
		}
		if input.Goal > 0 {
			update["goal"] = input.Goal
		}
		if input.Duration > 0 {
			update["duration"] = input.Duration
		}
		if input.MinInvestment > 0 {
			update["min_investment"] = input.MinInvestment
		}
		if len(input.Impact) > 0 {
			update["impact"] = input.Impact
		}
		if input.ReturnRate > 0 {
			update["return_rate"] = input.ReturnRate
		}
		if input.RepaymentPeriod > 0 {
			update["repayment_period"] = input.RepaymentPeriod
		}

		if fileHeader, err := c.FormFile("thumbnail"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
				return
			}
			url, err := utils.UploadProjectThumbnail(file)
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "thumbnail upload failed", "details": err.Error()})
				return
			}
			update["thumbnail"] = url
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		if _, err := col.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$set": update}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update project"})
			return
		}

		var updated models.Project
		if err := col.FindOne(ctx, bson.M{"_id": projectID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated project"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Project updated successfully",
			"project": updated,
		})
	}
}

// ---------------- SEARCH ----------------
func SearchProjects(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("query")
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}

		regex := bson.M{"$regex": query, "$options": "i"}
		filter := bson.M{"$or": []bson.M{
			{"title": regex},
			{"category": regex},
			{"location": regex},
		}}

		col := cfg.Collection("projects")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().
			SetSkip(int64((page - 1) * limit)).
			SetLimit(int64(limit)).
			SetProjection(bson.M{
				"title": 1, "category": 1, "location": 1, "thumbnail": 1,
				"goal": 1, "current_funding": 1, "min_investment": 1, "creator": 1,
			})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error during search"})
			return
		}

		var projects []models.Project
		if err := cursor.All(ctx, &projects); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode projects"})
			return
		}

		total, err := col.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error during search"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    projects,
			"pagination": gin.H{
				"total": total,
				"page":  page,
				"pages": int(math.Ceil(float64(total) / float64(limit))),
			},
		})
	}
}

func GetSuggestions(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("query")
		if query == "" {
			c.JSON(http.StatusOK, gin.H{"success": false, "suggestions": []string{}})
			return
		}

		regex := bson.M{"$regex": query, "$options": "i"}
		filter := bson.M{"$or": []bson.M{
			{"title": regex},
			{"category": regex},
			{"location": regex},
		}}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetLimit(5).SetProjection(bson.M{"title": 1})
		cursor, err := cfg.Collection("projects").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "suggestions": []string{}})
			return
		}

		var docs []struct {
			Title string `bson:"title"`
		}
		if err := cursor.All(ctx, &docs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "suggestions": []string{}})
			return
		}

		suggestions := make([]string, 0, len(docs))
		for _, d := range docs {
			suggestions = append(suggestions, d.Title)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "suggestions": suggestions})
	}
}
