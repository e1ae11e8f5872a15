package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event status values. Status is a cached derived field: it is recomputed
// via ComputeStatus on every mutation, never trusted from storage.
const (
	StatusUpcoming     = "Upcoming"
	StatusOngoing      = "Ongoing"
	StatusCompleted    = "Completed"
	StatusNotAvailable = "Not Available"
)

// Actors that can hold the disable lock on an event.
const (
	ActorUser  = "user"
	ActorAdmin = "admin"
)

// EventCodeLength is the required length of the human-entered event code.
const EventCodeLength = 8

type Event struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Code                string             `bson:"code" json:"code"` // unique, exactly 8 characters
	Date                time.Time          `bson:"date" json:"date"`
	Location            string             `bson:"location" json:"location"`
	Description         string             `bson:"description" json:"description"`
	Category            primitive.ObjectID `bson:"category" json:"category"`
	CategoryName        string             `bson:"-" json:"category_name,omitempty"`
	User                primitive.ObjectID `bson:"user" json:"user"` // creator
	MaxParticipants     int                `bson:"max_participants" json:"max_participants"`
	CurrentParticipants int                `bson:"current_participants" json:"current_participants"`
	Image               string             `bson:"image" json:"image"`
	IsDisabled          bool               `bson:"is_disabled" json:"is_disabled"`
	DisabledBy          string             `bson:"disabled_by,omitempty" json:"disabled_by,omitempty"` // "", "user" or "admin"
	Status              string             `bson:"status" json:"status"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updated_at"`
}

// ComputeStatus derives the lifecycle status of an event. The disabled flag
// overrides all date logic; a strictly-past date wins over the same-day
// check, so an event that started earlier today already counts as Completed.
func ComputeStatus(date time.Time, isDisabled bool, now time.Time) string {
	if isDisabled {
		return StatusNotAvailable
	}
	if date.Before(now) {
		return StatusCompleted
	}
	if sameDay(date, now) {
		return StatusOngoing
	}
	return StatusUpcoming
}

// sameDay compares calendar days in server-local time.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// CanEnable reports whether actor may lift the disable lock on an event.
// A disable is sticky: only the actor that set it (or nobody) can clear it.
func CanEnable(disabledBy, actor string) error {
	if disabledBy == "" || disabledBy == actor {
		return nil
	}
	return fmt.Errorf("this event was disabled by %s and cannot be enabled by %s", disabledBy, actor)
}
