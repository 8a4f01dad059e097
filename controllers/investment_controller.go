package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/loveland/klyntfund-go/config"
	models "github.com/loveland/klyntfund-go/models"
	utils "github.com/loveland/klyntfund-go/utils"
)

// VerifyAndAddInvestment is the investment intake pipeline: verify the
// payment with the gateway, resolve project and investor, run the fraud
// heuristics, then append to the project ledger.
func VerifyAndAddInvestment(cfg *config.Config) gin.HandlerFunc {
	verifier := utils.NewPaystackVerifier(cfg.PaystackBaseURL, cfg.PaystackSecret)

	return func(c *gin.Context) {
		var input struct {
			Reference  string `json:"reference" binding:"required"`
			ProjectID  string `json:"projectId" binding:"required"`
			InvestorID string `json:"investorId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
			return
		}

		projectID, err := primitive.ObjectIDFromHex(input.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project id"})
			return
		}
		investorID, err := primitive.ObjectIDFromHex(input.InvestorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid investor id"})
			return
		}

		ipAddress := c.ClientIP()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		// 1. Payment Verifier
		tx, err := verifier.VerifyTransaction(ctx, input.Reference)
		if errors.Is(err, utils.ErrVerificationFailed) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Transaction verification failed"})
			return
		}
		if err != nil {
			log.Printf("payment verification error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		amount := tx.Amount

		// 2. Entity Resolver
		var project models.Project
		if err := cfg.Collection("projects").FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found"})
			return
		}

		var investor models.User
		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": investorID}).Decode(&investor); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Investor not found"})
			return
		}

		// Amounts at or below the project minimum never reach the evaluator.
		if amount <= project.MinInvestment {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": fmt.Sprintf("Investment amount must exceed the project minimum of %.2f", project.MinInvestment),
			})
			return
		}

		// 3. Fraud Heuristic Evaluator
		now := time.Now()
		fraudFlag, fraudReasons := models.EvaluateFraud(models.FraudCandidate{
			Investor:   investorID,
			Amount:     amount,
			PaymentRef: tx.Reference,
			IPAddress:  ipAddress,
		}, project.Investors, now)
		if fraudReasons == nil {
			fraudReasons = []string{}
		}

		// 4. Ledger Appender. The push and the funding increment travel in
		// one document update, so concurrent submissions on the same project
		// cannot lose each other's increments.
		dueDate := now.AddDate(0, project.RepaymentPeriod, 0)
		investment := models.Investment{
			ID:               primitive.NewObjectID(),
			Investor:         investorID,
			Amount:           amount,
			PaymentRef:       tx.Reference,
			InvestedAt:       now,
			ExpectedReturn:   math.Round(amount * (1 + project.ReturnRate/100)),
			RepaymentDueDate: &dueDate,
			FraudFlag:        fraudFlag,
			FraudReasons:     fraudReasons,
			Status:           models.InvestmentPending,
			IPAddress:        ipAddress,
		}

		res, err := cfg.Collection("projects").UpdateOne(ctx,
			bson.M{"_id": projectID},
			bson.M{
				"$push": bson.M{"investors": investment},
				"$inc":  bson.M{"current_funding": amount},
				"$set":  bson.M{"updated_at": now},
			},
		)
		if err != nil || res.MatchedCount == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not record investment"})
			return
		}

		project.CurrentFunding += amount
		markCompletedIfFunded(ctx, cfg, &project)

		go logActivity(cfg, investorID, models.ActionInvestmentMade, map[string]any{
			"project": project.Title,
			"amount":  amount,
		})

		// Confirmation email, best-effort.
		go func() {
			text := fmt.Sprintf(
				"Hello %s,\n\nYour investment in %q has been recorded successfully.\n\nAmount: %.2f\nReference: %s\nDate: %s\n\nThank you for investing with KLYTNFUND!",
				investor.FullName, project.Title, amount, tx.Reference, now.Format(time.RFC1123),
			)
			if fraudFlag {
				text += "\n\nNote: your transaction has been flagged for review due to: " + strings.Join(fraudReasons, ", ") + "."
			}
			if err := utils.SendEmail(utils.EmailParams{
				To:      investor.Email,
				ToName:  investor.FullName,
				Subject: "Investment Confirmation - " + project.Title,
				Text:    text,
			}); err != nil {
				log.Printf("investment confirmation email failed: %v", err)
			}
		}()

		message := "Investment successful"
		if fraudFlag {
			message = "Investment successful, but flagged for review"
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      message,
			"projectId":    project.ID.Hex(),
			"amount":       amount,
			"reference":    tx.Reference,
			"fraudFlag":    fraudFlag,
			"fraudReasons": fraudReasons,
		})
	}
}

// ---------------- INVESTOR STATS ----------------
func GetInvestorStats(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		investorID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("projects").Find(ctx, bson.M{"investors.investor": investorID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}

		var projects []models.Project
		if err := cursor.All(ctx, &projects); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}

		var totalInvested, highestSingle, totalExpectedReturn float64
		var totalCount int
		var mostRecent *gin.H
		var mostRecentAt time.Time
		supported := map[string]struct{}{}

		for _, project := range projects {
			for _, inv := range project.Investors {
				if inv.Investor != investorID {
					continue
				}
				totalInvested += inv.Amount
				totalCount++
				if inv.Amount > highestSingle {
					highestSingle = inv.Amount
				}
				if mostRecent == nil || inv.InvestedAt.After(mostRecentAt) {
					mostRecentAt = inv.InvestedAt
					mostRecent = &gin.H{"title": project.Title, "date": inv.InvestedAt}
				}
				supported[project.ID.Hex()] = struct{}{}

				if project.ReturnRate > 0 && project.RepaymentPeriod > 0 {
					interest := inv.Amount * (project.ReturnRate / 100) * (float64(project.RepaymentPeriod) / 12)
					totalExpectedReturn += inv.Amount + interest
				}
			}
		}

		var avgPerProject float64
		if len(supported) > 0 {
			avgPerProject = totalInvested / float64(len(supported))
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"investorStat": gin.H{
				"totalInvested":               totalInvested,
				"projectsSupported":           len(supported),
				"averageInvestmentPerProject": avgPerProject,
				"highestSingleInvestment":     highestSingle,
				"totalInvestmentCount":        totalCount,
				"mostRecentProject":           mostRecent,
				"totalExpectedReturn":         totalExpectedReturn,
			},
		})
	}
}

// ---------------- MY INVESTMENTS ----------------
func GetMyInvestments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		investorID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("projects").Find(ctx, bson.M{"investors.investor": investorID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error fetching investments"})
			return
		}

		var projects []models.Project
		if err := cursor.All(ctx, &projects); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error fetching investments"})
			return
		}

		now := time.Now()
		investments := make([]gin.H, 0, len(projects))

		for _, project := range projects {
			var totalAmount float64
			var latest time.Time
			for _, inv := range project.Investors {
				if inv.Investor != investorID {
					continue
				}
				totalAmount += inv.Amount
				if inv.InvestedAt.After(latest) {
					latest = inv.InvestedAt
				}
			}
			if totalAmount == 0 {
				continue
			}

			pct := project.PercentageFunded()
			daysLeft := project.DaysLeft(now)

			status := "In Progress"
			if pct >= 100 {
				status = "Funded"
			} else if daysLeft == 0 {
				status = "Completed"
			}

			creatorName := ""
			var creator models.User
			if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": project.Creator}).Decode(&creator); err == nil {
				creatorName = creator.FullName
			}

			expectedReturn := totalAmount * (1 + project.ReturnRate/100)

			investments = append(investments, gin.H{
				"_id":            project.ID.Hex(),
				"amount":         totalAmount,
				"createdAt":      latest,
				"expectedReturn": math.Round(expectedReturn),
				"project": gin.H{
					"title":            project.Title,
					"thumbnail":        project.Thumbnail,
					"location":         project.Location,
					"fullName":         creatorName,
					"goal":             project.Goal,
					"amountRaised":     project.CurrentFunding,
					"percentageFunded": int(math.Round(pct)),
				},
				"status": status,
			})
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "investments": investments})
	}
}

// ---------------- INVESTMENT HISTORY ----------------
func GetInvestmentHistory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		investorID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("projects").Find(ctx, bson.M{"investors.investor": investorID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error fetching investment history"})
			return
		}

		var projects []models.Project
		if err := cursor.All(ctx, &projects); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error fetching investment history"})
			return
		}

		type historyEntry struct {
			Date    time.Time `json:"date"`
			Amount  float64   `json:"amount"`
			Project string    `json:"project"`
			Method  string    `json:"method"`
		}

		var history []historyEntry
		for _, project := range projects {
			for _, inv := range project.Investors {
				if inv.Investor != investorID {
					continue
				}
				method := "Unknown"
				if strings.HasPrefix(inv.PaymentRef, "momo_") {
					method = "Momo"
				} else if strings.HasPrefix(inv.PaymentRef, "card_") {
					method = "Card"
				}
				history = append(history, historyEntry{
					Date:    inv.InvestedAt,
					Amount:  inv.Amount,
					Project: project.Title,
					Method:  method,
				})
			}
		}

		sort.Slice(history, func(i, j int) bool {
			return history[i].Date.After(history[j].Date)
		})

		c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
	}
}
