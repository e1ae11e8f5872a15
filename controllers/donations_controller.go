package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	config "github.com/kamande/community-events-go/config"
	middleware "github.com/kamande/community-events-go/middleware"
	models "github.com/kamande/community-events-go/models"
	utils "github.com/kamande/community-events-go/utils"
)

// ---------------- RECORD ----------------
// Webhook-shaped append of a payment outcome. Donations are immutable:
// there is no update or delete surface.
func RecordDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email   string `json:"email" binding:"required,email"`
			Amount  int64  `json:"amount" binding:"required"`
			Message string `json:"message"`
			Status  string `json:"status"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and amount are required"})
			return
		}
		if input.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Amount must be greater than 0"})
			return
		}

		status := input.Status
		if status == "" {
			status = models.DonationSucceeded
		}

		donation := models.Donation{
			ID:        primitive.NewObjectID(),
			Email:     strings.ToLower(strings.TrimSpace(input.Email)),
			Amount:    input.Amount,
			Message:   input.Message,
			Status:    status,
			CreatedAt: time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("donations").InsertOne(ctx, donation); err != nil {
			cfg.Logger.Error("record donation", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not record donation"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "donation": donation})
	}
}

// ---------------- USER HISTORY ----------------
func DonationHistory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(middleware.ContextEmail)
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Missing user context"})
			return
		}

		pg := utils.ParsePagination(c.Query("page"), c.Query("limit"))
		listDonations(cfg, c, bson.M{"email": email}, pg)
	}
}

// ---------------- ADMIN HISTORY ----------------
func AdminDonationHistory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		if status == "" {
			status = models.DonationSucceeded
		}

		pg := utils.ParsePagination(c.Query("page"), c.Query("limit"))
		listDonations(cfg, c, bson.M{"status": status}, pg)
	}
}

func listDonations(cfg *config.Config, c *gin.Context, filter bson.M, pg utils.Pagination) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	col := cfg.Collection("donations")

	totalDocs, err := col.CountDocuments(ctx, filter)
	if err != nil {
		cfg.Logger.Error("count donations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch donation history"})
		return
	}

	cursor, err := col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(pg.Skip)).
		SetLimit(int64(pg.Limit)),
	)
	if err != nil {
		cfg.Logger.Error("find donations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch donation history"})
		return
	}

	var donations []models.Donation
	if err := cursor.All(ctx, &donations); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch donation history"})
		return
	}
	if donations == nil {
		donations = []models.Donation{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"donations":   donations,
		"currentPage": pg.Page,
		"totalPages":  pg.TotalPages(totalDocs),
	})
}
