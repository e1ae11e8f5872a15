package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	config "github.com/kamande/community-events-go/config"
	models "github.com/kamande/community-events-go/models"
	utils "github.com/kamande/community-events-go/utils"
)

// ---------------- ADMIN LOGIN ----------------
func AdminLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username and password required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var admin models.Admin
		err := cfg.Collection("admins").FindOne(ctx, bson.M{"username": input.Username}).Decode(&admin)
		if err != nil || !utils.CheckPassword(admin.Password, input.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateAdminToken(cfg, admin)
		if err != nil {
			cfg.Logger.Error("admin token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"token":   token,
			"admin": gin.H{
				"id":       admin.ID.Hex(),
				"username": admin.Username,
			},
		})
	}
}

// SeedAdminAccount creates the console admin from ADMIN_USERNAME and
// ADMIN_PASSWORD when no account with that username exists yet. A blank
// password skips seeding.
func SeedAdminAccount(cfg *config.Config) error {
	if cfg.AdminPassword == "" {
		cfg.Logger.Warn("ADMIN_PASSWORD not set, skipping admin account seed")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	col := cfg.Collection("admins")
	err := col.FindOne(ctx, bson.M{"username": cfg.AdminUsername}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	_, err = col.InsertOne(ctx, models.Admin{
		ID:        primitive.NewObjectID(),
		Username:  cfg.AdminUsername,
		Password:  hash,
		CreatedAt: time.Now(),
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return err
	}
	cfg.Logger.Info("admin account seeded", zap.String("username", cfg.AdminUsername))
	return nil
}
