package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"societysync-be/cache"
	"societysync-be/config"
	"societysync-be/middlewares"
	"societysync-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var feedbackCollection *mongo.Collection = config.GetCollection("feedback")

// CreateFeedback records a resident's rating of how their issue was handled.
// Feedback starts pending and only counts toward a technician's rating once
// a committee member approves it.
func CreateFeedback(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input struct {
		IssueID      string   `json:"issueId" binding:"required"`
		AssignmentID *string  `json:"assignmentId,omitempty"`
		Rating       int      `json:"rating" binding:"required,min=1,max=5"`
		Comment      string   `json:"comment,omitempty"`
		Categories   []string `json:"categories,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	issueID, err := primitive.ObjectIDFromHex(input.IssueID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid issue ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, ok := findIssue(ctx, c, issueID)
	if !ok {
		return
	}
	if issue.ReportedBy != user.ID {
		respondError(c, http.StatusForbidden, "Only the reporter of an issue may leave feedback on it")
		return
	}

	feedback := models.Feedback{
		ID:         primitive.NewObjectID(),
		Issue:      issueID,
		User:       user.ID,
		Technician: issue.AssignedTo,
		Rating:     input.Rating,
		Comment:    input.Comment,
		Categories: input.Categories,
		Status:     models.FeedbackPending,
		CreatedAt:  time.Now(),
	}

	if input.AssignmentID != nil {
		assignmentID, err := primitive.ObjectIDFromHex(*input.AssignmentID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid assignment ID")
			return
		}
		var assignment models.Assignment
		if err := assignmentCollection.FindOne(ctx, bson.M{"_id": assignmentID}).Decode(&assignment); err != nil {
			respondError(c, http.StatusNotFound, "Assignment not found")
			return
		}
		if assignment.Issue != issueID {
			respondError(c, http.StatusBadRequest, "Assignment does not belong to this issue")
			return
		}
		feedback.Assignment = &assignmentID
		feedback.Technician = &assignment.Technician
	}

	if _, err := feedbackCollection.InsertOne(ctx, feedback); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to submit feedback")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "feedback": feedback})
}

// GetIssueFeedback lists feedback on one issue.
func GetIssueFeedback(c *gin.Context) {
	issueID, ok := objectIDParam(c)
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

	issue, ok := findIssue(ctx, c, issueID)
	if !ok {
		return
	}

	filter := bson.M{"issue": issueID}
	// Residents only see approved feedback on their own issues.
	if user.Role == models.RoleResident {
		if issue.ReportedBy != user.ID {
			respondError(c, http.StatusForbidden, "You are not authorized to view feedback on this issue")
			return
		}
		filter["$or"] = []bson.M{
			{"status": models.FeedbackApproved},
			{"user": user.ID},
		}
	}

	cursor, err := feedbackCollection.Find(ctx, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve feedback")
		return
	}
	defer cursor.Close(ctx)

	var feedback []models.Feedback
	if err := cursor.All(ctx, &feedback); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "feedback": feedback})
}

// ModerateFeedback lets a committee member approve, reject or flag a
// feedback entry. Approval appends the score to the technician's rating
// history and recomputes the mean in a single atomic update.
func ModerateFeedback(c *gin.Context) {
	feedbackID, ok := objectIDParam(c)
	if !ok {
		return
	}
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !models.ValidFeedbackStatus(input.Status) {
		respondError(c, http.StatusBadRequest, "Invalid feedback status")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var feedback models.Feedback
	if err := feedbackCollection.FindOne(ctx, bson.M{"_id": feedbackID}).Decode(&feedback); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Feedback not found")
		} else {
			respondError(c, http.StatusInternalServerError, "Failed to retrieve feedback")
		}
		return
	}

	newStatus := models.FeedbackStatus(input.Status)

	if newStatus == models.FeedbackApproved && feedback.Status != models.FeedbackApproved {
		if feedback.Technician == nil {
			respondError(c, http.StatusBadRequest, "Feedback has no technician to rate")
			return
		}
		if err := appendTechnicianRating(ctx, *feedback.Technician, feedback.Rating); err != nil {
			log.Println("Error appending rating:", err)
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	update := bson.M{"$set": bson.M{"status": newStatus}}
	if _, err := feedbackCollection.UpdateOne(ctx, bson.M{"_id": feedbackID}, update); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update feedback")
		return
	}

	recordAudit(c, models.AuditFeedbackModerated, &user.ID, "success", map[string]any{
		"feedback": feedbackID.Hex(),
		"status":   newStatus,
	})
	cache.Invalidate(c, "/api/feedback")

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Feedback moderated successfully"})
}

// appendTechnicianRating pushes the score onto the technician's history and
// recomputes the mean in one pipeline update, so concurrent approvals never
// interleave partial rating state. The role filter makes rating anyone but a
// technician an error rather than a silent no-op.
func appendTechnicianRating(ctx context.Context, technicianID primitive.ObjectID, score int) error {
	if score < 1 || score > 5 {
		return errInvalidScore
	}

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"rating.scores": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$rating.scores", bson.A{}}},
				bson.A{score},
			}},
		}},
		bson.M{"$set": bson.M{
			"rating.average": bson.M{"$avg": "$rating.scores"},
			"rating.count":   bson.M{"$size": "$rating.scores"},
		}},
	}

	result, err := userCollection.UpdateOne(ctx,
		bson.M{"_id": technicianID, "role": models.RoleTechnician},
		pipeline,
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errNotTechnician
	}
	return nil
}
