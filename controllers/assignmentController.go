package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"societysync-be/access"
	"societysync-be/cache"
	"societysync-be/middlewares"
	"societysync-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAllAssignments lists work orders. Technicians see their own; committee
// members see all.
func GetAllAssignments(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if user.Role == models.RoleTechnician {
		filter["technician"] = user.ID
	}
	if status := c.Query("status"); status != "" && status != "all" {
		filter["status"] = status
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	totalCount, err := assignmentCollection.CountDocuments(ctx, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to count assignments")
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := assignmentCollection.Find(ctx, filter, findOptions)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve assignments")
		return
	}
	defer cursor.Close(ctx)

	var assignments []models.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode assignments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"assignments":      assignments,
		"totalAssignments": totalCount,
		"totalPages":       int((totalCount + int64(limit) - 1) / int64(limit)),
		"currentPage":      page,
	})
}

// findAssignment loads the work order; a missing record yields 404 before
// any permission decision.
func findAssignment(ctx context.Context, c *gin.Context, id primitive.ObjectID) (models.Assignment, bool) {
	var assignment models.Assignment
	err := assignmentCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Assignment not found")
		} else {
			respondError(c, http.StatusInternalServerError, "Failed to retrieve assignment")
		}
		return models.Assignment{}, false
	}
	return assignment, true
}

// GetAssignment retrieves one work order with derived metrics.
func GetAssignment(c *gin.Context) {
	assignmentID, ok := objectIDParam(c)
	if !ok {
		return
	}
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	assignment, ok := findAssignment(ctx, c, assignmentID)
	if !ok {
		return
	}

	if !access.CanAccessAssignment(user.Role, user.ID, assignment.Technician, access.ActionRead) {
		respondError(c, http.StatusForbidden, "You are not authorized to view this assignment")
		return
	}

	response := gin.H{"success": true, "assignment": assignment}
	if d := assignment.Duration(); d != nil {
		response["durationMinutes"] = d.Minutes()
	}
	if eff := assignment.Efficiency(); eff != nil {
		response["efficiency"] = *eff
	}

	c.JSON(http.StatusOK, response)
}

// transitionAssignment centralizes the lookup, access check, model mutation
// and persistence shared by the assignment verbs.
func transitionAssignment(c *gin.Context, action access.Action, apply func(*models.Assignment) error) {
	assignmentID, ok := objectIDParam(c)
	if !ok {
		return
	}
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	assignment, ok := findAssignment(ctx, c, assignmentID)
	if !ok {
		return
	}

	if !access.CanAccessAssignment(user.Role, user.ID, assignment.Technician, action) {
		respondError(c, http.StatusForbidden, "You are not authorized to modify this assignment")
		return
	}

	if err := apply(&assignment); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	update := bson.M{
		"status":          assignment.Status,
		"rejectionReason": assignment.RejectionReason,
		"completionNotes": assignment.CompletionNotes,
		"updatedAt":       assignment.UpdatedAt,
	}
	if assignment.ActualStartTime != nil {
		update["actualStartTime"] = assignment.ActualStartTime
	}
	if assignment.ActualCompletionTime != nil {
		update["actualCompletionTime"] = assignment.ActualCompletionTime
	}
	if assignment.TimeSpentMinutes != nil {
		update["timeSpentMinutes"] = assignment.TimeSpentMinutes
	}
	if assignment.MaterialsUsed != nil {
		update["materialsUsed"] = assignment.MaterialsUsed
	}

	if _, err := assignmentCollection.UpdateOne(ctx, bson.M{"_id": assignmentID}, bson.M{"$set": update}); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update assignment")
		return
	}

	// Keep the issue lifecycle in step with the work order.
	now := time.Now()
	var issue models.Issue
	if err := issueCollection.FindOne(ctx, bson.M{"_id": assignment.Issue}).Decode(&issue); err == nil {
		var issueUpdate bson.M
		switch assignment.Status {
		case models.AssignmentInProgress:
			issue.SetStatus(models.StatusInProgress, now)
			issueUpdate = bson.M{"$set": bson.M{"status": issue.Status, "startedAt": issue.StartedAt, "updatedAt": issue.UpdatedAt}}
		case models.AssignmentCompleted:
			issue.SetStatus(models.StatusResolved, now)
			issueUpdate = bson.M{"$set": bson.M{"status": issue.Status, "resolvedAt": issue.ResolvedAt, "updatedAt": issue.UpdatedAt}}
		case models.AssignmentRejected:
			// Drop the field entirely so the issue looks never-assigned again.
			issueUpdate = bson.M{
				"$set":   bson.M{"status": models.StatusNew, "updatedAt": now},
				"$unset": bson.M{"assignedTo": ""},
			}
		}
		if issueUpdate != nil {
			_, _ = issueCollection.UpdateOne(ctx, bson.M{"_id": assignment.Issue}, issueUpdate)
		}
	}

	recordAudit(c, models.AuditAssignmentUpdate, &user.ID, "success", map[string]any{
		"assignment": assignmentID.Hex(),
		"status":     assignment.Status,
	})
	cache.Invalidate(c, "/api/assignments")
	cache.Invalidate(c, "/api/issues")

	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}

// AcceptAssignment moves a pending work order to accepted.
func AcceptAssignment(c *gin.Context) {
	transitionAssignment(c, access.ActionUpdate, func(a *models.Assignment) error {
		return a.Accept(time.Now())
	})
}

// RejectAssignment terminates a pending work order with a reason.
func RejectAssignment(c *gin.Context) {
	var input struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	transitionAssignment(c, access.ActionUpdate, func(a *models.Assignment) error {
		return a.Reject(input.Reason, time.Now())
	})
}

// StartAssignment begins work. Starting twice never resets the start time.
func StartAssignment(c *gin.Context) {
	transitionAssignment(c, access.ActionUpdate, func(a *models.Assignment) error {
		return a.StartWork(time.Now())
	})
}

// CompleteAssignment finishes a work order with notes, time spent and the
// materials used. Only the assignee may complete.
func CompleteAssignment(c *gin.Context) {
	var input struct {
		CompletionNotes string            `json:"completionNotes,omitempty"`
		TimeSpent       int               `json:"timeSpent,omitempty"` // minutes
		MaterialsUsed   []models.Material `json:"materialsUsed,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	transitionAssignment(c, access.ActionComplete, func(a *models.Assignment) error {
		return a.Complete(input.CompletionNotes, input.TimeSpent, input.MaterialsUsed, time.Now())
	})
}

// UpdateAssignmentTime adjusts the time tracking fields of a work order.
func UpdateAssignmentTime(c *gin.Context) {
	assignmentID, ok := objectIDParam(c)
	if !ok {
		return
	}
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input struct {
		EstimatedDuration *int `json:"estimatedDuration,omitempty"` // minutes
		TimeSpent         *int `json:"timeSpent,omitempty"`         // minutes
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if input.EstimatedDuration == nil && input.TimeSpent == nil {
		respondError(c, http.StatusBadRequest, "Nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	assignment, ok := findAssignment(ctx, c, assignmentID)
	if !ok {
		return
	}

	if !access.CanAccessAssignment(user.Role, user.ID, assignment.Technician, access.ActionUpdate) {
		respondError(c, http.StatusForbidden, "You are not authorized to modify this assignment")
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.EstimatedDuration != nil {
		if *input.EstimatedDuration < 0 {
			respondError(c, http.StatusBadRequest, "Estimated duration must not be negative")
			return
		}
		update["estimatedDuration"] = *input.EstimatedDuration
	}
	if input.TimeSpent != nil {
		if *input.TimeSpent < 0 {
			respondError(c, http.StatusBadRequest, "Time spent must not be negative")
			return
		}
		update["timeSpentMinutes"] = *input.TimeSpent
	}

	if _, err := assignmentCollection.UpdateOne(ctx, bson.M{"_id": assignmentID}, bson.M{"$set": update}); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update assignment")
		return
	}

	cache.Invalidate(c, "/api/assignments")

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Assignment time updated successfully"})
}
