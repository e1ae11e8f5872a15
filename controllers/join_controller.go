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

// ---------------- JOIN ----------------
// Joining is two store writes: the join record first (its unique index
// rejects duplicates), then a conditional increment that re-checks capacity
// and the disabled flag in the filter. A failed increment rolls the record
// back, so the participant counter never exceeds the maximum and a user can
// hold at most one join per event, under any interleaving.
func JoinEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requesterID(c)
		if !ok {
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		events := cfg.Collection("events")
		participations := cfg.Collection("participations")

		if err := events.FindOne(ctx, bson.M{"_id": eventID}).Err(); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Event not found"})
			return
		}

		record := models.Participation{
			ID:        primitive.NewObjectID(),
			EventID:   eventID,
			UserID:    userID,
			CreatedAt: time.Now(),
		}
		if _, err := participations.InsertOne(ctx, record); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You have already joined this event"})
				return
			}
			cfg.Logger.Error("join insert", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not join event"})
			return
		}

		res, err := events.UpdateOne(ctx,
			bson.M{
				"_id":         eventID,
				"is_disabled": false,
				"$expr":       bson.M{"$lt": bson.A{"$current_participants", "$max_participants"}},
			},
			bson.M{
				"$inc": bson.M{"current_participants": 1},
				"$set": bson.M{"updated_at": time.Now()},
			},
		)
		if err != nil || res.ModifiedCount == 0 {
			// Capacity reached, event disabled, or gone. Undo the record.
			if _, delErr := participations.DeleteOne(ctx, bson.M{"_id": record.ID}); delErr != nil {
				cfg.Logger.Error("join rollback", zap.Error(delErr))
			}
			if err != nil {
				cfg.Logger.Error("join increment", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not join event"})
				return
			}
			var current models.Event
			if findErr := events.FindOne(ctx, bson.M{"_id": eventID}).Decode(&current); findErr != nil {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Event not found"})
				return
			}
			if current.IsDisabled {
				c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Event is not available"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Event is full"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Joined event successfully"})
	}
}

// ---------------- LEAVE ----------------
func LeaveEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requesterID(c)
		if !ok {
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		res, err := cfg.Collection("participations").DeleteOne(ctx, bson.M{"event_id": eventID, "user_id": userID})
		if err != nil {
			cfg.Logger.Error("leave delete", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not leave event"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "You have not joined this event"})
			return
		}

		// Zero floor guard against double decrements.
		_, err = cfg.Collection("events").UpdateOne(ctx,
			bson.M{"_id": eventID, "current_participants": bson.M{"$gt": 0}},
			bson.M{
				"$inc": bson.M{"current_participants": -1},
				"$set": bson.M{"updated_at": time.Now()},
			},
		)
		if err != nil {
			cfg.Logger.Error("leave decrement", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not leave event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Left event successfully"})
	}
}

// ---------------- JOINED EVENTS ----------------
func ListJoinedEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requesterID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("participations").Find(ctx, bson.M{"user_id": userID})
		if err != nil {
			cfg.Logger.Error("list joined", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not fetch joined events"})
			return
		}

		var records []models.Participation
		if err := cursor.All(ctx, &records); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not decode joined events"})
			return
		}

		events := []models.Event{}
		if len(records) > 0 {
			ids := make([]primitive.ObjectID, 0, len(records))
			for _, r := range records {
				ids = append(ids, r.EventID)
			}
			eventCursor, err := cfg.Collection("events").Find(ctx,
				bson.M{"_id": bson.M{"$in": ids}},
				options.Find().SetSort(bson.D{{Key: "date", Value: 1}}),
			)
			if err != nil {
				cfg.Logger.Error("joined events fetch", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not fetch joined events"})
				return
			}
			if err := eventCursor.All(ctx, &events); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not decode joined events"})
				return
			}
			attachCategoryNames(ctx, cfg, events)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Joined events retrieved",
			"events":  events,
		})
	}
}
