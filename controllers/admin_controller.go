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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/loveland/klyntfund-go/config"
	models "github.com/loveland/klyntfund-go/models"
	utils "github.com/loveland/klyntfund-go/utils"
)

// ---------------- ADMIN LOGIN ----------------
func AdminLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing details"})
			return
		}

		if input.Email != cfg.AdminEmail || input.Password != cfg.AdminPassword {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}

		token, err := utils.SignAdminToken(cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Login failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "token": token})
	}
}

// ---------------- DASHBOARD ANALYTICS ----------------
func GetDashboardAnalytics(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		users := cfg.Collection("users")
		projects := cfg.Collection("projects")
		logs := cfg.Collection("activitylogs")

		totalUsers, err := users.CountDocuments(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch dashboard analytics"})
			return
		}
		suspendedUsers, _ := users.CountDocuments(ctx, bson.M{"suspended": true})

		totalProjects, _ := projects.CountDocuments(ctx, bson.M{})
		statusBreakdown := gin.H{}
		for _, status := range []string{models.StatusApproved, models.StatusPending, models.StatusRejected, models.StatusCompleted} {
			n, _ := projects.CountDocuments(ctx, bson.M{"status": status})
			statusBreakdown[status] = n
		}

		// Investment count and total raised across all embedded ledgers.
		var invTotals struct {
			Count       int     `bson:"count"`
			TotalRaised float64 `bson:"total_raised"`
		}
		cursor, err := projects.Aggregate(ctx, mongo.Pipeline{
			{{Key: "$unwind", Value: "$investors"}},
			{{Key: "$group", Value: bson.M{
				"_id":          nil,
				"count":        bson.M{"$sum": 1},
				"total_raised": bson.M{"$sum": "$investors.amount"},
			}}},
		})
		if err == nil {
			var rows []bson.M
			if cursor.All(ctx, &rows) == nil && len(rows) > 0 {
				if v, ok := rows[0]["count"].(int32); ok {
					invTotals.Count = int(v)
				}
				switch v := rows[0]["total_raised"].(type) {
				case float64:
					invTotals.TotalRaised = v
				case int32:
					invTotals.TotalRaised = float64(v)
				case int64:
					invTotals.TotalRaised = float64(v)
				}
			}
		}

		// Projects and funds raised over the last 7 days.
		days := utils.LastNDays(7)
		projectsOverTime := make([]gin.H, 0, len(days))
		fundsOverTime := make([]gin.H, 0, len(days))
		for _, day := range days {
			start, _ := time.Parse("2006-01-02", day)
			end := start.AddDate(0, 0, 1)

			count, _ := projects.CountDocuments(ctx, bson.M{
				"created_at": bson.M{"$gte": start, "$lt": end},
			})
			projectsOverTime = append(projectsOverTime, gin.H{"day": day, "count": count})

			var amount float64
			cur, err := projects.Aggregate(ctx, mongo.Pipeline{
				{{Key: "$unwind", Value: "$investors"}},
				{{Key: "$match", Value: bson.M{
					"investors.invested_at": bson.M{"$gte": start, "$lt": end},
				}}},
				{{Key: "$group", Value: bson.M{
					"_id":   nil,
					"total": bson.M{"$sum": "$investors.amount"},
				}}},
			})
			if err == nil {
				var rows []bson.M
				if cur.All(ctx, &rows) == nil && len(rows) > 0 {
					switch v := rows[0]["total"].(type) {
					case float64:
						amount = v
					case int32:
						amount = float64(v)
					case int64:
						amount = float64(v)
					}
				}
			}
			fundsOverTime = append(fundsOverTime, gin.H{"day": day, "amount": amount})
		}

		// Top five categories by project count.
		var topCategories []bson.M
		if cur, err := projects.Aggregate(ctx, mongo.Pipeline{
			{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
			{{Key: "$sort", Value: bson.M{"count": -1}}},
			{{Key: "$limit", Value: 5}},
		}); err == nil {
			_ = cur.All(ctx, &topCategories)
		}

		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		newUsersThisMonth, _ := users.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": monthStart}})

		// Latest five activity entries, with user names resolved.
		activityLog := []gin.H{}
		opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(5)
		if cur, err := logs.Find(ctx, bson.M{}, opts); err == nil {
			var entries []models.ActivityLog
			if cur.All(ctx, &entries) == nil {
				for _, entry := range entries {
					name := "Unknown"
					var u models.User
					if users.FindOne(ctx, bson.M{"_id": entry.User}).Decode(&u) == nil {
						name = u.FullName
					}
					activityLog = append(activityLog, gin.H{
						"user":      name,
						"action":    entry.Action,
						"meta":      entry.Meta,
						"createdAt": entry.CreatedAt,
					})
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"quickStats": gin.H{
					"totalUsers": totalUsers,
					"usersByStatus": gin.H{
						"active":    totalUsers - suspendedUsers,
						"suspended": suspendedUsers,
					},
					"totalProjects":          totalProjects,
					"projectStatusBreakdown": statusBreakdown,
					"totalInvestments":       invTotals.Count,
					"totalFundsRaised":       invTotals.TotalRaised,
				},
				"projectActivity": gin.H{
					"projectsOverTime": projectsOverTime,
					"topCategories":    topCategories,
				},
				"investmentOverview": gin.H{
					"fundsOverTime": fundsOverTime,
				},
				"userEngagement": gin.H{
					"newUsersThisMonth": newUsersThisMonth,
					"activityLog":       activityLog,
				},
			},
		})
	}
}

// ---------------- PROJECT MODERATION ----------------
func GetProjectsByStatus(cfg *config.Config, status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{"status": status}
		if status == models.StatusCompleted {
			// Fully funded projects count as completed even before the
			// auto-transition has run.
			filter = bson.M{"$or": []bson.M{
				{"status": models.StatusCompleted},
				{"$expr": bson.M{"$gte": []string{"$current_funding", "$goal"}}},
			}}
		}

		opts := options.Find().SetSort(bson.M{"created_at": -1})
		cursor, err := cfg.Collection("projects").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch " + status + " projects"})
			return
		}

		var projects []models.Project
		if err := cursor.All(ctx, &projects); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch " + status + " projects"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(projects),
			"status":  status,
			"data":    projects,
		})
	}
}

func GetAdminProjectByID(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project ID"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var project models.Project
		if err := cfg.Collection("projects").FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found"})
			return
		}

		var creator models.User
		creatorInfo := gin.H{}
		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": project.Creator}).Decode(&creator); err == nil {
			creatorInfo = gin.H{"fullName": creator.FullName, "email": creator.Email}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": project, "creator": creatorInfo})
	}
}

// setProjectStatus performs a guarded pending-only transition. A project
// already out of pending makes the update match nothing, which surfaces as a
// 409 with the current status.
func setProjectStatus(cfg *config.Config, to string) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project ID"})
			return
		}

		col := cfg.Collection("projects")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res := col.FindOneAndUpdate(ctx,
			bson.M{"_id": projectID, "status": models.StatusPending},
			bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		var project models.Project
		if err := res.Decode(&project); err != nil {
			// Distinguish missing from non-pending.
			var existing models.Project
			if err := col.FindOne(ctx, bson.M{"_id": projectID}).Decode(&existing); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": fmt.Sprintf("Project is already %s and cannot be %s", existing.Status, to),
				"status":  existing.Status,
			})
			return
		}

		action := models.ActionProjectApproved
		subject := "Your Project Has Been Approved!"
		text := fmt.Sprintf("Hello %%s,\n\nGreat news! Your project %q has been reviewed and approved. You can now start receiving investments.\n\nThank you for building with KLYTNFUND.", project.Title)
		headerColor := "#16A34A"
		if to == models.StatusRejected {
			action = models.ActionProjectRejected
			subject = "Project Submission Rejected"
			text = fmt.Sprintf("Hello %%s,\n\nUnfortunately, your project %q has been reviewed and rejected. For more details or to resubmit, please contact our support team.", project.Title)
			headerColor = "#DC2626"
		}

		go logActivity(cfg, project.Creator, action, map[string]any{"project": project.Title})

		go func() {
			var creator models.User
			cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer ccancel()
			if err := cfg.Collection("users").FindOne(cctx, bson.M{"_id": project.Creator}).Decode(&creator); err != nil {
				return
			}
			if err := utils.SendEmail(utils.EmailParams{
				To:          creator.Email,
				ToName:      creator.FullName,
				Subject:     subject,
				Text:        fmt.Sprintf(text, creator.FullName),
				HeaderColor: headerColor,
			}); err != nil {
				log.Printf("project %s email failed: %v", to, err)
			}
		}()

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Project " + to + " successfully",
			"data":    project,
		})
	}
}

func ApproveProject(cfg *config.Config) gin.HandlerFunc {
	return setProjectStatus(cfg, models.StatusApproved)
}

func RejectProject(cfg *config.Config) gin.HandlerFunc {
	return setProjectStatus(cfg, models.StatusRejected)
}

func DeleteProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project ID"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var project models.Project
		if err := cfg.Collection("projects").FindOneAndDelete(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found"})
			return
		}

		if project.Thumbnail != "" {
			if err := utils.DeleteFromCloudinary(project.Thumbnail); err != nil {
				log.Printf("thumbnail cleanup failed for project %s: %v", projectID.Hex(), err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project deleted successfully"})
	}
}

// ---------------- INVESTMENT OVERSIGHT ----------------

// investmentProjection is the common $project stage shaping one embedded
// investment joined with its investor and parent project.
func investmentProjection() bson.D {
	return bson.D{{Key: "$project", Value: bson.M{
		"_id":               "$investors._id",
		"amount":            "$investors.amount",
		"paymentRef":        "$investors.payment_ref",
		"investedAt":        "$investors.invested_at",
		"status":            "$investors.status",
		"expectedReturn":    "$investors.expected_return",
		"repaidAt":          "$investors.repaid_at",
		"fraudFlag":         "$investors.fraud_flag",
		"fraudReasons":      "$investors.fraud_reasons",
		"dispute.reason":    "$investors.dispute.reason",
		"dispute.date":      "$investors.dispute.date",
		"dispute.resolved":  "$investors.dispute.resolved",
		"investor.fullName": "$investorData.full_name",
		"investor.email":    "$investorData.email",
		"project._id":       "$_id",
		"project.title":     "$title",
		"project.category":  "$category",
	}}}
}

func investorLookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "investors.investor",
			"foreignField": "_id",
			"as":           "investorData",
		}}},
		{{Key: "$unwind", Value: "$investorData"}},
	}
}

func GetAllInvestments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}
		search := c.Query("search")

		match := bson.M{}
		if status := c.Query("status"); status != "" {
			match["investors.status"] = status
		}
		if flagged := c.Query("flagged"); flagged != "" {
			match["investors.fraud_flag"] = flagged == "true"
		}

		pipeline := mongo.Pipeline{
			{{Key: "$unwind", Value: "$investors"}},
			{{Key: "$match", Value: match}},
		}
		pipeline = append(pipeline, investorLookupStages()...)
		if search != "" {
			regex := bson.M{"$regex": search, "$options": "i"}
			pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"$or": []bson.M{
				{"investorData.full_name": regex},
				{"investorData.email": regex},
				{"title": regex},
			}}}})
		}
		pipeline = append(pipeline, investmentProjection())
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.M{"investedAt": -1}}})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		col := cfg.Collection("projects")

		// Total before pagination.
		countPipeline := append(mongo.Pipeline{}, pipeline...)
		countPipeline = append(countPipeline, bson.D{{Key: "$count", Value: "total"}})
		total := 0
		if cur, err := col.Aggregate(ctx, countPipeline); err == nil {
			var rows []bson.M
			if cur.All(ctx, &rows) == nil && len(rows) > 0 {
				if v, ok := rows[0]["total"].(int32); ok {
					total = int(v)
				}
			}
		}

		pipeline = append(pipeline,
			bson.D{{Key: "$skip", Value: (page - 1) * limit}},
			bson.D{{Key: "$limit", Value: limit}},
		)

		cursor, err := col.Aggregate(ctx, pipeline)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}

		var data []bson.M
		if err := cursor.All(ctx, &data); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		if data == nil {
			data = []bson.M{}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   total,
			"page":    page,
			"pages":   int(math.Ceil(float64(total) / float64(limit))),
			"data":    data,
		})
	}
}

func runInvestmentListPipeline(cfg *config.Config, c *gin.Context, match bson.M, sortStage bson.D) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$investors"}},
		{{Key: "$match", Value: match}},
	}
	pipeline = append(pipeline, investorLookupStages()...)
	pipeline = append(pipeline, investmentProjection(), sortStage)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := cfg.Collection("projects").Aggregate(ctx, pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	var data []bson.M
	if err := cursor.All(ctx, &data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	if data == nil {
		data = []bson.M{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(data), "data": data})
}

func GetFlaggedInvestments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		runInvestmentListPipeline(cfg, c,
			bson.M{"investors.fraud_flag": true},
			bson.D{{Key: "$sort", Value: bson.M{"investedAt": -1}}})
	}
}

func GetRefundedInvestments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		runInvestmentListPipeline(cfg, c,
			bson.M{"investors.status": models.InvestmentRefunded},
			bson.D{{Key: "$sort", Value: bson.M{"repaidAt": -1}}})
	}
}

func GetDisputedInvestments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		match := bson.M{"$or": []bson.M{
			{"investors.dispute.reason": bson.M{"$nin": []any{nil, ""}}},
			{"investors.fraud_flag": true},
		}}
		if resolved := c.Query("resolved"); resolved == "true" || resolved == "false" {
			match["investors.dispute.resolved"] = resolved == "true"
		}
		runInvestmentListPipeline(cfg, c, match,
			bson.D{{Key: "$sort", Value: bson.D{
				{Key: "dispute.date", Value: -1},
				{Key: "investedAt", Value: -1},
			}}})
	}
}

func RefundInvestment(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			InvestmentID string `json:"investmentId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "investmentId is required"})
			return
		}
		investmentID, err := primitive.ObjectIDFromHex(input.InvestmentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid investment id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("projects").UpdateOne(ctx,
			bson.M{"investors._id": investmentID},
			bson.M{"$set": bson.M{
				"investors.$.status":    models.InvestmentRefunded,
				"investors.$.is_repaid": true,
				"investors.$.repaid_at": time.Now(),
			}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Investment not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Investment refunded successfully"})
	}
}

func ResolveDispute(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			InvestmentID string `json:"investmentId" binding:"required"`
			Resolved     *bool  `json:"resolved" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Resolved field must be a boolean"})
			return
		}
		investmentID, err := primitive.ObjectIDFromHex(input.InvestmentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid investment id"})
			return
		}

		col := cfg.Collection("projects")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var project models.Project
		if err := col.FindOne(ctx, bson.M{"investors._id": investmentID}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Investment not found"})
			return
		}

		res, err := col.UpdateOne(ctx,
			bson.M{"investors._id": investmentID},
			bson.M{"$set": bson.M{"investors.$.dispute.resolved": *input.Resolved}},
		)
		if err != nil || res.MatchedCount == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update dispute status"})
			return
		}

		message := fmt.Sprintf("Dispute reopened for project %q", project.Title)
		if *input.Resolved {
			message = fmt.Sprintf("Dispute marked as resolved for project %q", project.Title)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
	}
}

func GetSingleInvestment(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := primitive.ObjectIDFromHex(c.Param("projectId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project ID"})
			return
		}
		paymentRef := c.Param("paymentRef")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var project models.Project
		err = cfg.Collection("projects").FindOne(ctx,
			bson.M{"_id": projectID, "investors.payment_ref": paymentRef},
		).Decode(&project)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Investment not found"})
			return
		}

		var investment *models.Investment
		for i := range project.Investors {
			if project.Investors[i].PaymentRef == paymentRef {
				investment = &project.Investors[i]
				break
			}
		}
		if investment == nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Investment not found in project"})
			return
		}

		var interest float64
		if project.ReturnRate > 0 {
			interest = investment.Amount * project.ReturnRate / 100
		}

		c.JSON(http.StatusOK, gin.H{
			"projectTitle":       project.Title,
			"category":           project.Category,
			"goal":               project.Goal,
			"currentFunding":     project.CurrentFunding,
			"returnRate":         project.ReturnRate,
			"repaymentPeriod":    project.RepaymentPeriod,
			"investment":         investment,
			"calculatedInterest": interest,
		})
	}
}

// DeleteInvestment removes an embedded investment and reverses its funding
// contribution. The pull and the decrement travel in one update so the total
// cannot drift from the sum of the remaining entries.
func DeleteInvestment(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentRef := c.Param("paymentRef")

		col := cfg.Collection("projects")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var project models.Project
		if err := col.FindOne(ctx, bson.M{"investors.payment_ref": paymentRef}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Investment not found"})
			return
		}

		var amount float64
		found := false
		for _, inv := range project.Investors {
			if inv.PaymentRef == paymentRef {
				amount = inv.Amount
				found = true
				break
			}
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Investment not found"})
			return
		}

		res, err := col.UpdateOne(ctx,
			bson.M{"_id": project.ID, "investors.payment_ref": paymentRef},
			bson.M{
				"$pull": bson.M{"investors": bson.M{"payment_ref": paymentRef}},
				"$inc":  bson.M{"current_funding": -amount},
				"$set":  bson.M{"updated_at": time.Now()},
			},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete investment"})
			return
		}
		if res.MatchedCount == 0 {
			// Raced with another delete of the same reference.
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Investment not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"message":        "Investment deleted successfully",
			"updatedFunding": project.CurrentFunding - amount,
		})
	}
}

// ---------------- USER MANAGEMENT ----------------
func GetUsers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}

		filter := bson.M{}
		if search := c.Query("search"); search != "" {
			regex := bson.M{"$regex": search, "$options": "i"}
			filter["$or"] = []bson.M{
				{"full_name": regex},
				{"email": regex},
			}
		}
		if role := c.Query("role"); role != "" {
			filter["role"] = role
		}

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().
			SetSort(bson.M{"created_at": -1}).
			SetSkip(int64((page - 1) * limit)).
			SetLimit(int64(limit))

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error while fetching users"})
			return
		}

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error while fetching users"})
			return
		}

		total, err := col.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error while fetching users"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"count":      len(users),
			"total":      total,
			"page":       page,
			"totalPages": int(math.Ceil(float64(total) / float64(limit))),
			"data":       users,
		})
	}
}

func GetUserByID(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
	}
}

func DeleteUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("users").DeleteOne(ctx, bson.M{"_id": userID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
	}
}

func MessageUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
			return
		}

		var input struct {
			Subject string `json:"subject" binding:"required"`
			Message string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "subject and message are required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}

		if err := utils.SendEmail(utils.EmailParams{
			To:      user.Email,
			ToName:  user.FullName,
			Subject: input.Subject,
			Text:    input.Message,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send email"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message sent successfully"})
	}
}

func ToggleSuspendUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
			return
		}

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := col.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}

		suspended := !user.Suspended
		if _, err := col.UpdateOne(ctx, bson.M{"_id": userID},
			bson.M{"$set": bson.M{"suspended": suspended}}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		user.Suspended = suspended

		status := "Re-activated"
		action := models.ActionAccountApproved
		headerColor := "#16A34A"
		text := fmt.Sprintf("Hello %s,\n\nYour account has been re-activated. You can now log in and continue using our services.", user.FullName)
		if suspended {
			status = "Suspended"
			action = models.ActionAccountSuspended
			headerColor = "#DC2626"
			text = fmt.Sprintf("Hello %s,\n\nYour account has been suspended. If you believe this is a mistake, please contact support.", user.FullName)
		}

		go logActivity(cfg, user.ID, action, nil)

		go func() {
			if err := utils.SendEmail(utils.EmailParams{
				To:          user.Email,
				ToName:      user.FullName,
				Subject:     "Account " + status,
				Text:        text,
				HeaderColor: headerColor,
			}); err != nil {
				log.Printf("suspension email failed: %v", err)
			}
		}()

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("User %s successfully", map[bool]string{true: "suspended", false: "re-activated"}[suspended]),
			"data":    user,
		})
	}
}
