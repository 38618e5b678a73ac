package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackStatus enum
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackApproved FeedbackStatus = "approved"
	FeedbackRejected FeedbackStatus = "rejected"
	FeedbackFlagged  FeedbackStatus = "flagged"
)

func ValidFeedbackStatus(s string) bool {
	switch FeedbackStatus(s) {
	case FeedbackPending, FeedbackApproved, FeedbackRejected, FeedbackFlagged:
		return true
	}
	return false
}

// Feedback is a resident's rating of how an issue was handled. It references
// the issue and optionally the assignment that resolved it.
type Feedback struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Issue      primitive.ObjectID  `bson:"issue" json:"issue"`
	Assignment *primitive.ObjectID `bson:"assignment,omitempty" json:"assignment,omitempty"`
	User       primitive.ObjectID  `bson:"user" json:"user"`
	Technician *primitive.ObjectID `bson:"technician,omitempty" json:"technician,omitempty"`
	Rating     int                 `bson:"rating" json:"rating"`
	Comment    string              `bson:"comment,omitempty" json:"comment,omitempty"`
	Categories []string            `bson:"categories,omitempty" json:"categories,omitempty"`
	Status     FeedbackStatus      `bson:"status" json:"status"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
}
