package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonationSucceeded is the status recorded by the payment processor for a
// completed payment.
const DonationSucceeded = "succeeded"

// Donation is an append-only record of a payment outcome. Records are
// written once (by the processor webhook) and never mutated.
type Donation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Amount    int64              `bson:"amount" json:"amount"` // minor currency units
	Message   string             `bson:"message,omitempty" json:"message,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Participation records that a user joined an event. The (event_id, user_id)
// pair carries a unique index, which makes duplicate joins a store-level
// conflict rather than a client-side courtesy.
type Participation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
