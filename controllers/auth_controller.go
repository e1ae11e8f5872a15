package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	config "github.com/kamande/community-events-go/config"
	middleware "github.com/kamande/community-events-go/middleware"
	models "github.com/kamande/community-events-go/models"
	utils "github.com/kamande/community-events-go/utils"
)

// userView strips the password hash from responses.
func userView(u models.User) gin.H {
	return gin.H{
		"id":         u.ID.Hex(),
		"username":   u.Username,
		"email":      u.Email,
		"role":       u.Role,
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// ---------------- SIGNUP ----------------
func Signup(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Username string `json:"username" binding:"required"`
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required,min=6"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username, email and password are required"})
			return
		}

		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
			return
		}

		now := time.Now()
		user := models.User{
			ID:        primitive.NewObjectID(),
			Username:  input.Username,
			Email:     strings.ToLower(strings.TrimSpace(input.Email)),
			Password:  hash,
			Role:      models.RoleUser,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("users").InsertOne(ctx, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username or email already in use"})
				return
			}
			cfg.Logger.Error("signup insert", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User added successfully"})
	}
}

// ---------------- LOGIN ----------------
// Credentials are verified first; the active-status gate runs after, so a
// disabled account with the right password gets the distinct disabled error.
func Login(cfg *config.Config) gin.HandlerFunc {
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

		var user models.User
		err := cfg.Collection("users").FindOne(ctx, bson.M{"username": input.Username}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}

		if !utils.CheckPassword(user.Password, input.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid password"})
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "User account is disabled"})
			return
		}

		token, err := utils.GenerateUserToken(cfg, user)
		if err != nil {
			cfg.Logger.Error("user token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Welcome " + user.Role,
			"token":   token,
		})
	}
}

// ---------------- GET USER ----------------
func GetUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": userView(user)})
	}
}

// ---------------- LIST USERS (ADMIN) ----------------
func ListUsers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("users").Find(ctx, bson.M{})
		if err != nil {
			cfg.Logger.Error("list users", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not fetch users"})
			return
		}

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not decode users"})
			return
		}

		views := make([]gin.H, 0, len(users))
		for _, u := range users {
			views = append(views, userView(u))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "users": views})
	}
}

// ---------------- ENABLE / DISABLE USER (ADMIN) ----------------
func UpdateUserStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
			return
		}

		var input struct {
			IsActive *bool `json:"is_active" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "is_active is required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		err = cfg.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"_id": oid},
			bson.M{"$set": bson.M{"is_active": *input.IsActive, "updated_at": time.Now()}},
			mongoReturnAfter(),
		).Decode(&user)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}

		verb := "disabled"
		if user.IsActive {
			verb = "enabled"
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "User " + verb + " successfully",
			"user":    userView(user),
		})
	}
}

// ---------------- DELETE USER (ADMIN) ----------------
func DeleteUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("users").DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			cfg.Logger.Error("delete user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete user"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
	}
}

// requesterID returns the authenticated caller's ObjectID from the context.
func requesterID(c *gin.Context) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user id"})
		return primitive.NilObjectID, false
	}
	return oid, true
}
