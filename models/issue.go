package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Plumbing   IssueCategory = "Plumbing"
	Electrical IssueCategory = "Electrical"
	Carpentry  IssueCategory = "Carpentry"
	Cleaning   IssueCategory = "Cleaning"
	Security   IssueCategory = "Security"
	Water      IssueCategory = "Water"
	Elevator   IssueCategory = "Elevator"
	Other      IssueCategory = "Other"
)

// ValidCategory reports whether s is one of the recognized categories.
func ValidCategory(s string) bool {
	switch IssueCategory(s) {
	case Plumbing, Electrical, Carpentry, Cleaning, Security, Water, Elevator, Other:
		return true
	}
	return false
}

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"
)

func ValidPriority(s string) bool {
	switch IssuePriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	StatusNew        IssueStatus = "new"
	StatusAssigned   IssueStatus = "assigned"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
	StatusClosed     IssueStatus = "closed"
)

func ValidStatus(s string) bool {
	switch IssueStatus(s) {
	case StatusNew, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Address is the free-text location of an issue within the society.
type Address struct {
	BlockNumber     string `bson:"blockNumber,omitempty" json:"blockNumber,omitempty"`
	ApartmentNumber string `bson:"apartmentNumber,omitempty" json:"apartmentNumber,omitempty"`
	Floor           string `bson:"floor,omitempty" json:"floor,omitempty"`
	Area            string `bson:"area,omitempty" json:"area,omitempty"`
}

// GeoPoint is a GeoJSON point, indexed 2dsphere.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [lng, lat]
}

// Media references an uploaded file attached to an issue.
type Media struct {
	URL  string `bson:"url" json:"url"`
	Type string `bson:"type,omitempty" json:"type,omitempty"`
}

// Issue represents a maintenance problem reported by a resident
type Issue struct {
	ID                      primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title                   string              `bson:"title" json:"title"`
	Description             string              `bson:"description" json:"description"`
	Category                IssueCategory       `bson:"category" json:"category"`
	CustomCategory          string              `bson:"customCategory,omitempty" json:"customCategory,omitempty"`
	Priority                IssuePriority       `bson:"priority" json:"priority"`
	Status                  IssueStatus         `bson:"status" json:"status"`
	Location                *GeoPoint           `bson:"location,omitempty" json:"location,omitempty"`
	Address                 Address             `bson:"address" json:"address"`
	Media                   []Media             `bson:"media,omitempty" json:"media,omitempty"`
	Cost                    float64             `bson:"cost,omitempty" json:"cost,omitempty"`
	EstimatedCompletionTime *int                `bson:"estimatedCompletionTime,omitempty" json:"estimatedCompletionTime,omitempty"` // hours
	ReportedBy              primitive.ObjectID  `bson:"reportedBy" json:"reportedBy"`
	AssignedTo              *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	AssignmentNotes         string              `bson:"assignmentNotes,omitempty" json:"assignmentNotes,omitempty"`
	ResolutionNotes         string              `bson:"resolutionNotes,omitempty" json:"resolutionNotes,omitempty"`
	AssignedAt              *time.Time          `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	StartedAt               *time.Time          `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	ResolvedAt              *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	ClosedAt                *time.Time          `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	CreatedAt               time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// SetStatus moves the issue to status and stamps the timestamp field of the
// target state with now. Intermediate states that were skipped keep their
// fields unset: jumping straight to resolved stamps only resolvedAt. Stamps
// are forward-only; nothing is cleared on a repeated or out-of-order set.
func (i *Issue) SetStatus(status IssueStatus, now time.Time) {
	i.Status = status
	switch status {
	case StatusAssigned:
		i.AssignedAt = &now
	case StatusInProgress:
		i.StartedAt = &now
	case StatusResolved:
		i.ResolvedAt = &now
	case StatusClosed:
		i.ClosedAt = &now
	}
	i.UpdatedAt = now
}

// IsOverdue reports whether the issue has outlived its estimated completion
// window. Issues without an assignment time or an estimate are never overdue.
func (i *Issue) IsOverdue(now time.Time) bool {
	if i.Status == StatusResolved || i.Status == StatusClosed {
		return false
	}
	if i.AssignedAt == nil || i.EstimatedCompletionTime == nil {
		return false
	}
	deadline := i.AssignedAt.Add(time.Duration(*i.EstimatedCompletionTime) * time.Hour)
	return now.After(deadline)
}
