package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus enum
type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "pending"
	AssignmentAccepted   AssignmentStatus = "accepted"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentRejected   AssignmentStatus = "rejected"
)

const maxRejectionReasonLen = 200

// Material is one line item of materials used while completing a work order.
type Material struct {
	Name     string  `bson:"name" json:"name"`
	Quantity float64 `bson:"quantity" json:"quantity"`
	Unit     string  `bson:"unit,omitempty" json:"unit,omitempty"`
	Cost     float64 `bson:"cost" json:"cost"`
}

// Validate rejects materials with empty names or negative amounts.
func (m Material) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("material name is required")
	}
	if m.Quantity < 0 {
		return fmt.Errorf("material %q: quantity must not be negative", m.Name)
	}
	if m.Cost < 0 {
		return fmt.Errorf("material %q: cost must not be negative", m.Name)
	}
	return nil
}

// Assignment is the work order linking one issue to one technician
type Assignment struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Issue                primitive.ObjectID `bson:"issue" json:"issue"`
	Technician           primitive.ObjectID `bson:"technician" json:"technician"`
	AssignedBy           primitive.ObjectID `bson:"assignedBy" json:"assignedBy"`
	Status               AssignmentStatus   `bson:"status" json:"status"`
	RejectionReason      string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Notes                string             `bson:"notes,omitempty" json:"notes,omitempty"`
	EstimatedDuration    *int               `bson:"estimatedDuration,omitempty" json:"estimatedDuration,omitempty"` // minutes
	ActualStartTime      *time.Time         `bson:"actualStartTime,omitempty" json:"actualStartTime,omitempty"`
	ActualCompletionTime *time.Time         `bson:"actualCompletionTime,omitempty" json:"actualCompletionTime,omitempty"`
	TimeSpentMinutes     *int               `bson:"timeSpentMinutes,omitempty" json:"timeSpentMinutes,omitempty"`
	CompletionNotes      string             `bson:"completionNotes,omitempty" json:"completionNotes,omitempty"`
	MaterialsUsed        []Material         `bson:"materialsUsed,omitempty" json:"materialsUsed,omitempty"`
	PaymentAmount        float64            `bson:"paymentAmount,omitempty" json:"paymentAmount,omitempty"`
	QualityRating        *int               `bson:"qualityRating,omitempty" json:"qualityRating,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// markStarted stamps ActualStartTime once. Re-entry never resets the timer.
func (a *Assignment) markStarted(now time.Time) {
	if a.ActualStartTime == nil {
		a.ActualStartTime = &now
	}
}

// Accept moves a pending assignment to accepted.
func (a *Assignment) Accept(now time.Time) error {
	if a.Status != AssignmentPending {
		return fmt.Errorf("cannot accept assignment in status %q", a.Status)
	}
	a.Status = AssignmentAccepted
	a.markStarted(now)
	a.UpdatedAt = now
	return nil
}

// Reject terminates a pending assignment. A reason is required and capped.
func (a *Assignment) Reject(reason string, now time.Time) error {
	if a.Status != AssignmentPending {
		return fmt.Errorf("cannot reject assignment in status %q", a.Status)
	}
	if reason == "" {
		return fmt.Errorf("rejection reason is required")
	}
	if utf8.RuneCountInString(reason) > maxRejectionReasonLen {
		return fmt.Errorf("rejection reason must be at most %d characters", maxRejectionReasonLen)
	}
	a.Status = AssignmentRejected
	a.RejectionReason = reason
	a.UpdatedAt = now
	return nil
}

// StartWork moves the assignment to in_progress. Calling it on an already
// started assignment keeps the original ActualStartTime.
func (a *Assignment) StartWork(now time.Time) error {
	switch a.Status {
	case AssignmentPending, AssignmentAccepted, AssignmentInProgress:
		a.Status = AssignmentInProgress
		a.markStarted(now)
		a.UpdatedAt = now
		return nil
	}
	return fmt.Errorf("cannot start work on assignment in status %q", a.Status)
}

// Complete terminates the assignment, recording completion notes, time spent
// in minutes and the materials consumed.
func (a *Assignment) Complete(notes string, timeSpent int, materials []Material, now time.Time) error {
	if a.Status == AssignmentCompleted || a.Status == AssignmentRejected {
		return fmt.Errorf("cannot complete assignment in status %q", a.Status)
	}
	if timeSpent < 0 {
		return fmt.Errorf("time spent must not be negative")
	}
	for _, m := range materials {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	a.Status = AssignmentCompleted
	a.CompletionNotes = notes
	a.TimeSpentMinutes = &timeSpent
	a.MaterialsUsed = materials
	a.ActualCompletionTime = &now
	a.markStarted(now)
	a.UpdatedAt = now
	return nil
}

// Duration is the wall-clock span between start and completion, or nil when
// either timestamp is missing.
func (a *Assignment) Duration() *time.Duration {
	if a.ActualStartTime == nil || a.ActualCompletionTime == nil {
		return nil
	}
	d := a.ActualCompletionTime.Sub(*a.ActualStartTime)
	return &d
}

// Efficiency is estimatedDuration / actualDuration * 100, or nil when either
// duration is missing or the actual duration is zero.
func (a *Assignment) Efficiency() *float64 {
	d := a.Duration()
	if a.EstimatedDuration == nil || d == nil || *d <= 0 {
		return nil
	}
	actual := d.Minutes()
	eff := float64(*a.EstimatedDuration) / actual * 100
	return &eff
}
