package access

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"societysync-be/models"
)

func TestCanAccessIssue(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	tests := []struct {
		name     string
		role     models.UserRole
		userID   primitive.ObjectID
		status   models.IssueStatus
		action   Action
		expected bool
	}{
		{"resident reads own issue", models.RoleResident, owner, models.StatusNew, ActionRead, true},
		{"resident cannot read others' issue", models.RoleResident, stranger, models.StatusNew, ActionRead, false},
		{"resident updates own new issue", models.RoleResident, owner, models.StatusNew, ActionUpdate, true},
		{"resident cannot update own assigned issue", models.RoleResident, owner, models.StatusAssigned, ActionUpdate, false},
		{"resident cannot update others' issue", models.RoleResident, stranger, models.StatusNew, ActionUpdate, false},
		{"resident never deletes", models.RoleResident, owner, models.StatusNew, ActionDelete, false},
		{"resident never assigns", models.RoleResident, owner, models.StatusNew, ActionAssign, false},
		{"technician reads any issue", models.RoleTechnician, stranger, models.StatusInProgress, ActionRead, true},
		{"technician updates any issue", models.RoleTechnician, stranger, models.StatusInProgress, ActionUpdate, true},
		{"technician cannot delete", models.RoleTechnician, stranger, models.StatusNew, ActionDelete, false},
		{"technician cannot assign", models.RoleTechnician, stranger, models.StatusNew, ActionAssign, false},
		{"committee deletes", models.RoleCommittee, stranger, models.StatusNew, ActionDelete, true},
		{"committee assigns", models.RoleCommittee, stranger, models.StatusNew, ActionAssign, true},
		{"unknown action denied for committee", models.RoleCommittee, stranger, models.StatusNew, Action("transmogrify"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAccessIssue(tt.role, tt.userID, owner, tt.status, tt.action)
			if got != tt.expected {
				t.Errorf("CanAccessIssue(%s, %s) = %v, want %v", tt.role, tt.action, got, tt.expected)
			}
		})
	}
}

func TestCanAccessAssignment(t *testing.T) {
	assignee := primitive.NewObjectID()
	otherTech := primitive.NewObjectID()

	tests := []struct {
		name     string
		role     models.UserRole
		userID   primitive.ObjectID
		action   Action
		expected bool
	}{
		{"assignee reads own assignment", models.RoleTechnician, assignee, ActionRead, true},
		{"other technician cannot read", models.RoleTechnician, otherTech, ActionRead, false},
		{"assignee updates own assignment", models.RoleTechnician, assignee, ActionUpdate, true},
		{"assignee completes own assignment", models.RoleTechnician, assignee, ActionComplete, true},
		{"other technician cannot complete", models.RoleTechnician, otherTech, ActionComplete, false},
		{"committee reads all", models.RoleCommittee, otherTech, ActionRead, true},
		{"committee updates all", models.RoleCommittee, otherTech, ActionUpdate, true},
		{"committee never completes", models.RoleCommittee, assignee, ActionComplete, false},
		{"resident denied entirely", models.RoleResident, assignee, ActionRead, false},
		{"unknown action denied", models.RoleCommittee, assignee, Action("escalate"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAccessAssignment(tt.role, tt.userID, assignee, tt.action)
			if got != tt.expected {
				t.Errorf("CanAccessAssignment(%s, %s) = %v, want %v", tt.role, tt.action, got, tt.expected)
			}
		})
	}
}

func TestIsStaff(t *testing.T) {
	if IsStaff(models.RoleResident) {
		t.Error("resident should not be staff")
	}
	if !IsStaff(models.RoleCommittee) || !IsStaff(models.RoleTechnician) {
		t.Error("committee and technician should be staff")
	}
}
