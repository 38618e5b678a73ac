// Package access holds the role and ownership decision tables gating every
// mutating endpoint. The functions are pure: callers look the target record
// up first (missing records are a 404, decided before any permission check)
// and must reject with a permission error on denial, never proceed.
package access

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"societysync-be/models"
)

// Action is a requested operation on a target record.
type Action string

const (
	ActionRead     Action = "read"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionAssign   Action = "assign"
	ActionComplete Action = "complete"
)

// IsStaff reports whether the role is committee or technician.
func IsStaff(role models.UserRole) bool {
	return role == models.RoleCommittee || role == models.RoleTechnician
}

// CanAccessIssue decides whether a user may perform action on an issue.
// Residents only touch their own issues and may update them only while the
// status is still "new". Delete and assign are committee-only. Anything not
// in the recognized action set is denied.
func CanAccessIssue(role models.UserRole, userID, reporterID primitive.ObjectID, status models.IssueStatus, action Action) bool {
	switch action {
	case ActionRead:
		if IsStaff(role) {
			return true
		}
		return role == models.RoleResident && userID == reporterID
	case ActionUpdate:
		if IsStaff(role) {
			return true
		}
		return role == models.RoleResident && userID == reporterID && status == models.StatusNew
	case ActionDelete, ActionAssign:
		return role == models.RoleCommittee
	}
	return false
}

// CanAccessAssignment decides whether a user may perform action on a work
// order. Technicians are limited to their own assignments; committee members
// see and manage all of them but never complete one (only the assignee
// completes). Unknown actions are denied.
func CanAccessAssignment(role models.UserRole, userID, technicianID primitive.ObjectID, action Action) bool {
	switch action {
	case ActionRead, ActionUpdate:
		if role == models.RoleCommittee {
			return true
		}
		return role == models.RoleTechnician && userID == technicianID
	case ActionComplete:
		return role == models.RoleTechnician && userID == technicianID
	}
	return false
}
