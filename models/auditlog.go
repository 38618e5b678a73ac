package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit actions
const (
	AuditLogin             = "login"
	AuditRegister          = "register"
	AuditLogout            = "logout"
	AuditIssueCreated      = "issue_created"
	AuditIssueUpdated      = "issue_updated"
	AuditIssueDeleted      = "issue_deleted"
	AuditIssueStatusChange = "issue_status_change"
	AuditIssueAssigned     = "issue_assigned"
	AuditAssignmentUpdate  = "assignment_update"
	AuditFeedbackModerated = "feedback_moderated"
)

// AuditLog is an append-only record of a security or compliance relevant
// action. Written once, never mutated.
type AuditLog struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Action    string              `bson:"action" json:"action"`
	Actor     *primitive.ObjectID `bson:"actor,omitempty" json:"actor,omitempty"`
	IP        string              `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string              `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	Outcome   string              `bson:"outcome" json:"outcome"` // success | failure
	Details   map[string]any      `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
