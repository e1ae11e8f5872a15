package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	config "github.com/kamande/community-events-go/config"
	models "github.com/kamande/community-events-go/models"
)

// ---------------- CREATE (ADMIN) ----------------
func CreateCategory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Category name required"})
			return
		}

		now := time.Now()
		category := models.Category{
			ID:        primitive.NewObjectID(),
			Name:      input.Name,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("categories").InsertOne(ctx, category); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Category already exists"})
				return
			}
			cfg.Logger.Error("create category", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create category"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "category": category})
	}
}

// ---------------- LIST ALL (ADMIN) ----------------
func ListCategories(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("categories").Find(ctx,
			bson.M{},
			options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
		)
		if err != nil {
			cfg.Logger.Error("list categories", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not fetch categories"})
			return
		}

		var categories []models.Category
		if err := cursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not decode categories"})
			return
		}
		if categories == nil {
			categories = []models.Category{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
	}
}

// ---------------- ENABLE / DISABLE (ADMIN) ----------------
// Soft only: a disabled category blocks new event assignment but events
// already referencing it are untouched.
func ToggleCategory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category id"})
			return
		}

		var input struct {
			Disable *bool `json:"disable" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "disable is required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var category models.Category
		err = cfg.Collection("categories").FindOneAndUpdate(ctx,
			bson.M{"_id": oid},
			bson.M{"$set": bson.M{"is_active": !*input.Disable, "updated_at": time.Now()}},
			mongoReturnAfter(),
		).Decode(&category)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
	}
}

// ---------------- RENAME (ADMIN) ----------------
func RenameCategory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category id"})
			return
		}

		var input struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var category models.Category
		err = cfg.Collection("categories").FindOneAndUpdate(ctx,
			bson.M{"_id": oid},
			bson.M{"$set": bson.M{"name": input.Name, "updated_at": time.Now()}},
			mongoReturnAfter(),
		).Decode(&category)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Category already exists"})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
	}
}

// ---------------- PUBLIC: ACTIVE CATEGORIES ----------------
func ListActiveCategories(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("categories").Find(ctx, bson.M{"is_active": true})
		if err != nil {
			cfg.Logger.Error("list active categories", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not fetch categories"})
			return
		}

		var categories []models.Category
		if err := cursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not decode categories"})
			return
		}

		views := make([]gin.H, 0, len(categories))
		for _, cat := range categories {
			views = append(views, gin.H{"id": cat.ID.Hex(), "name": cat.Name})
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "categories": views})
	}
}
