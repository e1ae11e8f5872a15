package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	config "github.com/kamande/community-events-go/config"
	middleware "github.com/kamande/community-events-go/middleware"
	models "github.com/kamande/community-events-go/models"
	utils "github.com/kamande/community-events-go/utils"
)

// parseEventDate accepts RFC3339 with date-only fallbacks.
func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format, use RFC3339 or YYYY-MM-DD")
}

// attachCategoryNames resolves category names for a batch of events in a
// single query.
func attachCategoryNames(ctx context.Context, cfg *config.Config, events []models.Event) {
	if len(events) == 0 {
		return
	}
	ids := make([]primitive.ObjectID, 0, len(events))
	seen := make(map[primitive.ObjectID]struct{})
	for _, ev := range events {
		if _, ok := seen[ev.Category]; !ok {
			seen[ev.Category] = struct{}{}
			ids = append(ids, ev.Category)
		}
	}

	cursor, err := cfg.Collection("categories").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return
	}
	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return
	}

	names := make(map[primitive.ObjectID]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	for i := range events {
		events[i].CategoryName = names[events[i].Category]
	}
}

// activeCategoryExists checks that the id resolves to a category with
// is_active = true. Disabled categories block new assignment only; events
// already referencing them are untouched.
func activeCategoryExists(ctx context.Context, cfg *config.Config, id primitive.ObjectID) bool {
	err := cfg.Collection("categories").FindOne(ctx, bson.M{"_id": id, "is_active": true}).Err()
	return err == nil
}

// ---------------- CREATE ----------------
func CreateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requesterID(c)
		if !ok {
			return
		}

		var input struct {
			Name            string `form:"name"`
			Code            string `form:"code"`
			Date            string `form:"date"`
			Location        string `form:"location"`
			Description     string `form:"description"`
			Category        string `form:"category"`
			MaxParticipants *int   `form:"max_participants"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		if input.Name == "" || input.Code == "" || input.Date == "" || input.Location == "" ||
			input.Category == "" || input.MaxParticipants == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All required fields must be provided"})
			return
		}
		if len(input.Code) != models.EventCodeLength {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Event code must be 8 characters"})
			return
		}
		if *input.MaxParticipants < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Max participants cannot be negative"})
			return
		}

		date, err := parseEventDate(input.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		categoryID, err := primitive.ObjectIDFromHex(input.Category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or inactive category"})
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Event image is required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if !activeCategoryExists(ctx, cfg, categoryID) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or inactive category"})
			return
		}

		imagePath, err := utils.StoreEventImage(cfg, fileHeader)
		if err != nil {
			cfg.Logger.Error("store image", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Image upload failed"})
			return
		}

		now := time.Now()
		event := models.Event{
			ID:                  primitive.NewObjectID(),
			Name:                input.Name,
			Code:                input.Code,
			Date:                date,
			Location:            input.Location,
			Description:         input.Description,
			Category:            categoryID,
			User:                userID,
			MaxParticipants:     *input.MaxParticipants,
			CurrentParticipants: 0,
			Image:               imagePath,
			IsDisabled:          false,
			Status:              models.ComputeStatus(date, false, now),
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		if _, err := cfg.Collection("events").InsertOne(ctx, event); err != nil {
			if removeErr := utils.RemoveEventImage(cfg, imagePath); removeErr != nil {
				cfg.Logger.Warn("orphan image cleanup", zap.Error(removeErr))
			}
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Event code already exists"})
				return
			}
			cfg.Logger.Error("create event", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create event"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Event created successfully",
			"event":   event,
		})
	}
}

// ---------------- LIST (PUBLIC) ----------------
func ListEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("events").Find(ctx,
			bson.M{"is_disabled": false},
			options.Find().SetSort(bson.D{{Key: "date", Value: 1}}),
		)
		if err != nil {
			cfg.Logger.Error("list events", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not fetch events"})
			return
		}

		var events []models.Event
		if err := cursor.All(ctx, &events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not decode events"})
			return
		}

		if len(events) > 0 {
			latest := events[0]
			for _, ev := range events {
				if ev.UpdatedAt.After(latest.UpdatedAt) {
					latest = ev
				}
			}
			etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
			if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
				c.Status(http.StatusNotModified)
				return
			}
			c.Header("ETag", etag)
			c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))
		}

		attachCategoryNames(ctx, cfg, events)
		if events == nil {
			events = []models.Event{}
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "All events retrieved",
			"events":  events,
		})
	}
}

// ---------------- GET BY ID ----------------
func GetEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var event models.Event
		if err := cfg.Collection("events").FindOne(ctx, bson.M{"_id": oid}).Decode(&event); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Event not found"})
			return
		}

		etag := utils.GenerateETag(event.ID, event.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		events := []models.Event{event}
		attachCategoryNames(ctx, cfg, events)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Event retrieved",
			"event":   events[0],
		})
	}
}

// ---------------- GET BY CODE ----------------
func GetEventByCode(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var event models.Event
		if err := cfg.Collection("events").FindOne(ctx, bson.M{"code": code}).Decode(&event); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Event not found"})
			return
		}

		if event.IsDisabled {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Event is not available"})
			return
		}

		events := []models.Event{event}
		attachCategoryNames(ctx, cfg, events)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Event retrieved",
			"event":   events[0],
		})
	}
}

// ---------------- LIST BY USER ----------------
// Includes the creator's disabled events, unlike the public listing.
func ListEventsByUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("userid"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("events").Find(ctx,
			bson.M{"user": userID},
			options.Find().SetSort(bson.D{{Key: "date", Value: 1}}),
		)
		if err != nil {
			cfg.Logger.Error("list user events", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not fetch events"})
			return
		}

		var events []models.Event
		if err := cursor.All(ctx, &events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not decode events"})
			return
		}

		attachCategoryNames(ctx, cfg, events)
		if events == nil {
			events = []models.Event{}
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Events retrieved",
			"events":  events,
		})
	}
}

// ---------------- LIST ALL (ADMIN) ----------------

// adminEventView is a flat event record with the creator's identity
// resolved for the console.
type adminEventView struct {
	models.Event
	Creator *eventCreator `json:"creator,omitempty"`
}

type eventCreator struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func AdminListEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("events").Find(ctx,
			bson.M{},
			options.Find().SetSort(bson.D{{Key: "date", Value: 1}}),
		)
		if err != nil {
			cfg.Logger.Error("admin list events", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not fetch events"})
			return
		}

		var events []models.Event
		if err := cursor.All(ctx, &events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not decode events"})
			return
		}

		attachCategoryNames(ctx, cfg, events)

		// Resolve creator username/email for the console view.
		creatorIDs := make([]primitive.ObjectID, 0, len(events))
		seen := make(map[primitive.ObjectID]struct{})
		for _, ev := range events {
			if _, ok := seen[ev.User]; !ok {
				seen[ev.User] = struct{}{}
				creatorIDs = append(creatorIDs, ev.User)
			}
		}
		creators := make(map[primitive.ObjectID]models.User)
		if len(creatorIDs) > 0 {
			userCursor, err := cfg.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": creatorIDs}})
			if err == nil {
				var users []models.User
				if err := userCursor.All(ctx, &users); err == nil {
					for _, u := range users {
						creators[u.ID] = u
					}
				}
			}
		}

		views := make([]adminEventView, 0, len(events))
		for _, ev := range events {
			view := adminEventView{Event: ev}
			if u, ok := creators[ev.User]; ok {
				view.Creator = &eventCreator{Username: u.Username, Email: u.Email}
			}
			views = append(views, view)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "All events retrieved",
			"events":  views,
		})
	}
}

// ---------------- UPDATE ----------------
func UpdateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(middleware.ContextRole)
		requester := c.GetString(middleware.ContextUserID)

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		col := cfg.Collection("events")
		var existing models.Event
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Event not found"})
			return
		}

		if role != models.RoleAdmin && existing.User.Hex() != requester {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
			return
		}

		var input struct {
			Name            string  `form:"name"`
			Date            string  `form:"date"`
			Location        string  `form:"location"`
			Description     *string `form:"description"`
			Category        string  `form:"category"`
			MaxParticipants *int    `form:"max_participants"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		newDate := existing.Date

		if input.Name != "" {
			update["name"] = input.Name
		}
		if input.Location != "" {
			update["location"] = input.Location
		}
		if input.Description != nil {
			update["description"] = *input.Description
		}
		if input.Date != "" {
			parsed, err := parseEventDate(input.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
				return
			}
			update["date"] = parsed
			newDate = parsed
		}

		if input.Category != "" {
			categoryID, err := primitive.ObjectIDFromHex(input.Category)
			if err != nil || !activeCategoryExists(ctx, cfg, categoryID) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category"})
				return
			}
			update["category"] = categoryID
		}

		// The participant count is a floor. The check rides in the update
		// filter so a concurrent join cannot slip under the new maximum.
		filter := bson.M{"_id": oid}
		if input.MaxParticipants != nil {
			if *input.MaxParticipants < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Max participants cannot be negative"})
				return
			}
			update["max_participants"] = *input.MaxParticipants
			filter["current_participants"] = bson.M{"$lte": *input.MaxParticipants}
		}

		var oldImage string
		if fileHeader, err := c.FormFile("image"); err == nil {
			imagePath, err := utils.StoreEventImage(cfg, fileHeader)
			if err != nil {
				cfg.Logger.Error("store image", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Image upload failed"})
				return
			}
			update["image"] = imagePath
			oldImage = existing.Image
		}

		update["status"] = models.ComputeStatus(newDate, existing.IsDisabled, time.Now())

		var updated models.Event
		err = col.FindOneAndUpdate(ctx, filter, bson.M{"$set": update}, mongoReturnAfter()).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			// Existence was checked above, so the floor guard is what failed.
			var current models.Event
			if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&current); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Event not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": fmt.Sprintf("Max participants cannot be less than current participants (%d)", current.CurrentParticipants),
			})
			return
		}
		if err != nil {
			cfg.Logger.Error("update event", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not update event"})
			return
		}

		if oldImage != "" && oldImage != updated.Image {
			if err := utils.RemoveEventImage(cfg, oldImage); err != nil {
				cfg.Logger.Warn("old image cleanup", zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Event updated successfully",
			"event":   updated,
		})
	}
}

// ---------------- DISABLE / ENABLE ----------------

// DisableEventByUser lets the owner toggle their event. Actor "user".
func DisableEventByUser(cfg *config.Config) gin.HandlerFunc {
	return toggleEventDisabled(cfg, models.ActorUser)
}

// DisableEventByAdmin is the moderation toggle. Actor "admin".
func DisableEventByAdmin(cfg *config.Config) gin.HandlerFunc {
	return toggleEventDisabled(cfg, models.ActorAdmin)
}

// toggleEventDisabled applies the disable-authority rule: disabling is
// unconditional and stamps the actor; enabling carries the authority guard
// inside the update filter, so a lock held by the other actor can never be
// raced past.
func toggleEventDisabled(cfg *config.Config, actor string) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid event id"})
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

		col := cfg.Collection("events")
		var existing models.Event
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Event not found"})
			return
		}

		// Only the owner may use the user-side toggle.
		if actor == models.ActorUser && existing.User.Hex() != c.GetString(middleware.ContextUserID) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
			return
		}

		now := time.Now()
		var updated models.Event

		if *input.Disable {
			err = col.FindOneAndUpdate(ctx,
				bson.M{"_id": oid},
				bson.M{"$set": bson.M{
					"is_disabled": true,
					"disabled_by": actor,
					"status":      models.StatusNotAvailable,
					"updated_at":  now,
				}},
				mongoReturnAfter(),
			).Decode(&updated)
		} else {
			// $in with nil also matches documents without the field.
			err = col.FindOneAndUpdate(ctx,
				bson.M{"_id": oid, "disabled_by": bson.M{"$in": bson.A{nil, actor}}},
				bson.M{
					"$set": bson.M{
						"is_disabled": false,
						"status":      models.ComputeStatus(existing.Date, false, now),
						"updated_at":  now,
					},
					"$unset": bson.M{"disabled_by": ""},
				},
				mongoReturnAfter(),
			).Decode(&updated)
			if err == mongo.ErrNoDocuments {
				var current models.Event
				if findErr := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&current); findErr != nil {
					c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Event not found"})
					return
				}
				if authErr := models.CanEnable(current.DisabledBy, actor); authErr != nil {
					c.JSON(http.StatusForbidden, gin.H{"success": false, "message": authErr.Error()})
					return
				}
				// Lock is free: a concurrent toggle already produced the
				// desired state, so report the current document.
				updated = current
				err = nil
			}
		}
		if err != nil {
			cfg.Logger.Error("toggle event", zap.Error(err), zap.String("actor", actor))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not update event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "event": updated})
	}
}

// ---------------- DELETE ----------------
func DeleteEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(middleware.ContextRole)
		requester := c.GetString(middleware.ContextUserID)

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		col := cfg.Collection("events")
		var existing models.Event
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Event not found"})
			return
		}

		if role != models.RoleAdmin && existing.User.Hex() != requester {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			cfg.Logger.Error("delete event", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete event"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Event not found"})
			return
		}

		if _, err := cfg.Collection("participations").DeleteMany(ctx, bson.M{"event_id": oid}); err != nil {
			cfg.Logger.Warn("participation cleanup", zap.Error(err))
		}
		if err := utils.RemoveEventImage(cfg, existing.Image); err != nil {
			cfg.Logger.Warn("image cleanup", zap.Error(err))
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Event deleted successfully",
			"id":      oid.Hex(),
		})
	}
}
