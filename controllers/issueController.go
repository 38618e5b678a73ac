package controllers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"societysync-be/access"
	"societysync-be/cache"
	"societysync-be/config"
	"societysync-be/middlewares"
	"societysync-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var issueCollection *mongo.Collection = config.GetCollection("issues")
var userCollection *mongo.Collection = config.GetCollection("users")
var assignmentCollection *mongo.Collection = config.GetCollection("assignments")

const maxMediaFiles = 10

// CreateIssue handles the creation of a new issue from a multipart form with
// up to 10 attached media files.
func CreateIssue(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	category := c.PostForm("category")
	customCategory := strings.TrimSpace(c.PostForm("customCategory"))
	priority := c.DefaultPostForm("priority", string(models.PriorityMedium))

	if title == "" || len(title) > 200 {
		respondError(c, http.StatusBadRequest, "Title is required and must be at most 200 characters")
		return
	}
	if description == "" || len(description) > 1000 {
		respondError(c, http.StatusBadRequest, "Description is required and must be at most 1000 characters")
		return
	}
	if !models.ValidCategory(category) {
		respondError(c, http.StatusBadRequest, "Invalid category")
		return
	}
	if category != string(models.Other) {
		customCategory = ""
	}
	if !models.ValidPriority(priority) {
		respondError(c, http.StatusBadRequest, "Invalid priority")
		return
	}

	address := models.Address{
		BlockNumber:     strings.TrimSpace(c.PostForm("blockNumber")),
		ApartmentNumber: strings.TrimSpace(c.PostForm("apartmentNumber")),
		Floor:           strings.TrimSpace(c.PostForm("floor")),
		Area:            strings.TrimSpace(c.PostForm("area")),
	}

	var location *models.GeoPoint
	latStr, lngStr := c.PostForm("latitude"), c.PostForm("longitude")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			respondError(c, http.StatusBadRequest, "Invalid coordinates")
			return
		}
		location = &models.GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
	}

	media, err := saveUploadedMedia(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	issue := models.Issue{
		ID:             primitive.NewObjectID(),
		Title:          title,
		Description:    description,
		Category:       models.IssueCategory(category),
		CustomCategory: customCategory,
		Priority:       models.IssuePriority(priority),
		Status:         models.StatusNew,
		Location:       location,
		Address:        address,
		Media:          media,
		ReportedBy:     user.ID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := issueCollection.InsertOne(ctx, issue); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create issue")
		return
	}

	recordAudit(c, models.AuditIssueCreated, &user.ID, "success", map[string]any{"issue": issue.ID.Hex(), "category": issue.Category})
	cache.Invalidate(c, "/api/issues")

	c.JSON(http.StatusCreated, gin.H{"success": true, "issue": issue})
}

// saveUploadedMedia stores the multipart "media" files under the uploads
// directory and returns their references. Requests without files are fine.
func saveUploadedMedia(c *gin.Context) ([]models.Media, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all; treat as no attachments.
		return nil, nil
	}

	files := form.File["media"]
	if len(files) > maxMediaFiles {
		return nil, fmt.Errorf("at most %d media files are allowed", maxMediaFiles)
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare upload directory")
	}

	var media []models.Media
	for _, file := range files {
		name := primitive.NewObjectID().Hex() + filepath.Ext(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, name)); err != nil {
			return nil, fmt.Errorf("failed to store uploaded file")
		}
		media = append(media, models.Media{
			URL:  "/uploads/" + name,
			Type: file.Header.Get("Content-Type"),
		})
	}
	return media, nil
}

// GetAllIssues lists issues with filtering, pagination and an overdue flag.
// Residents only see their own reports; staff see everything.
func GetAllIssues(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category := c.Query("category")
	status := c.Query("status")
	search := c.Query("search")
	sortParam := c.DefaultQuery("sort", "newest")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := bson.M{}
	if !access.IsStaff(user.Role) {
		filter["reportedBy"] = user.ID
	}
	if category != "" && category != "all" {
		filter["category"] = category
	}
	if status != "" && status != "all" {
		filter["status"] = status
	}
	if search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	skip := (page - 1) * limit

	var sortOptions bson.D
	switch sortParam {
	case "oldest":
		sortOptions = bson.D{{Key: "createdAt", Value: 1}}
	case "priority":
		sortOptions = bson.D{{Key: "priority", Value: -1}, {Key: "createdAt", Value: -1}}
	case "newest":
		fallthrough
	default:
		sortOptions = bson.D{{Key: "createdAt", Value: -1}}
	}

	totalCount, err := issueCollection.CountDocuments(ctx, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to count issues")
		return
	}

	findOptions := options.Find().
		SetSort(sortOptions).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := issueCollection.Find(ctx, filter, findOptions)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve issues")
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode issues")
		return
	}

	type issueWithMeta struct {
		models.Issue
		Overdue bool `json:"overdue"`
	}

	now := time.Now()
	withMeta := make([]issueWithMeta, 0, len(issues))
	for _, issue := range issues {
		withMeta = append(withMeta, issueWithMeta{Issue: issue, Overdue: issue.IsOverdue(now)})
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"issues":      withMeta,
		"totalIssues": totalCount,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// GetAllIssuesAdmin is the staff dashboard listing: every issue joined with
// its reporter's name and contact.
func GetAllIssuesAdmin(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if status := c.Query("status"); status != "" && status != "all" {
		filter["status"] = status
	}

	totalCount, err := issueCollection.CountDocuments(ctx, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to count issues")
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := issueCollection.Find(ctx, filter, findOptions)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve issues")
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode issues")
		return
	}

	now := time.Now()
	enriched := make([]gin.H, 0, len(issues))
	for _, issue := range issues {
		reportedBy := gin.H{"id": issue.ReportedBy}
		var reporter models.User
		if err := userCollection.FindOne(ctx, bson.M{"_id": issue.ReportedBy}).Decode(&reporter); err == nil {
			reportedBy["name"] = reporter.Name
			reportedBy["email"] = reporter.Email
			reportedBy["phone"] = reporter.Phone
		}

		enriched = append(enriched, gin.H{
			"issue":      issue,
			"reportedBy": reportedBy,
			"overdue":    issue.IsOverdue(now),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"issues":      enriched,
		"totalIssues": totalCount,
		"totalPages":  int((totalCount + int64(limit) - 1) / int64(limit)),
		"currentPage": page,
	})
}

// findIssue loads the issue, translating lookup failures into the proper
// status. Lookup always happens before any permission decision.
func findIssue(ctx context.Context, c *gin.Context, issueID primitive.ObjectID) (models.Issue, bool) {
	var issue models.Issue
	err := issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Issue not found")
		} else {
			respondError(c, http.StatusInternalServerError, "Failed to retrieve issue")
		}
		return models.Issue{}, false
	}
	return issue, true
}

// GetIssue retrieves an issue by its ID
func GetIssue(c *gin.Context) {
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

	if !access.CanAccessIssue(user.Role, user.ID, issue.ReportedBy, issue.Status, access.ActionRead) {
		respondError(c, http.StatusForbidden, "You are not authorized to view this issue")
		return
	}

	reportedBy := gin.H{"id": issue.ReportedBy}
	var reporter models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": issue.ReportedBy}).Decode(&reporter); err == nil {
		reportedBy["name"] = reporter.Name
		reportedBy["email"] = reporter.Email
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"issue":      issue,
		"reportedBy": reportedBy,
		"overdue":    issue.IsOverdue(time.Now()),
	})
}

// UpdateIssue edits issue details. Residents may only touch their own issues
// and only while the status is still "new"; staff may edit any issue.
func UpdateIssue(c *gin.Context) {
	issueID, ok := objectIDParam(c)
	if !ok {
		return
	}
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input struct {
		Title          *string  `json:"title,omitempty"`
		Description    *string  `json:"description,omitempty"`
		Category       *string  `json:"category,omitempty"`
		CustomCategory *string  `json:"customCategory,omitempty"`
		Priority       *string  `json:"priority,omitempty"`
		BlockNumber    *string  `json:"blockNumber,omitempty"`
		Apartment      *string  `json:"apartmentNumber,omitempty"`
		Floor          *string  `json:"floor,omitempty"`
		Area           *string  `json:"area,omitempty"`
		Cost           *float64 `json:"cost,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, ok := findIssue(ctx, c, issueID)
	if !ok {
		return
	}

	if !access.CanAccessIssue(user.Role, user.ID, issue.ReportedBy, issue.Status, access.ActionUpdate) {
		respondError(c, http.StatusForbidden, "You are not authorized to update this issue")
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Title != nil {
		update["title"] = *input.Title
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if input.Category != nil {
		if !models.ValidCategory(*input.Category) {
			respondError(c, http.StatusBadRequest, "Invalid category")
			return
		}
		update["category"] = *input.Category
	}
	if input.CustomCategory != nil {
		update["customCategory"] = *input.CustomCategory
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			respondError(c, http.StatusBadRequest, "Invalid priority")
			return
		}
		update["priority"] = *input.Priority
	}
	if input.BlockNumber != nil {
		update["address.blockNumber"] = *input.BlockNumber
	}
	if input.Apartment != nil {
		update["address.apartmentNumber"] = *input.Apartment
	}
	if input.Floor != nil {
		update["address.floor"] = *input.Floor
	}
	if input.Area != nil {
		update["address.area"] = *input.Area
	}
	if input.Cost != nil {
		if *input.Cost < 0 {
			respondError(c, http.StatusBadRequest, "Cost must not be negative")
			return
		}
		update["cost"] = *input.Cost
	}

	if _, err := issueCollection.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": update}); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update issue")
		return
	}

	recordAudit(c, models.AuditIssueUpdated, &user.ID, "success", map[string]any{"issue": issueID.Hex()})
	cache.Invalidate(c, "/api/issues")

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Issue updated successfully"})
}

// DeleteIssue removes an issue. Committee only.
func DeleteIssue(c *gin.Context) {
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

	if !access.CanAccessIssue(user.Role, user.ID, issue.ReportedBy, issue.Status, access.ActionDelete) {
		respondError(c, http.StatusForbidden, "You are not authorized to delete this issue")
		return
	}

	if _, err := issueCollection.DeleteOne(ctx, bson.M{"_id": issueID}); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete issue")
		return
	}

	recordAudit(c, models.AuditIssueDeleted, &user.ID, "success", map[string]any{"issue": issueID.Hex()})
	cache.Invalidate(c, "/api/issues")

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Issue deleted successfully"})
}

// UpdateIssueStatus moves an issue through its lifecycle. The timestamp of
// the target state is stamped with now even when intermediate states were
// skipped.
func UpdateIssueStatus(c *gin.Context) {
	issueID, ok := objectIDParam(c)
	if !ok {
		return
	}
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input struct {
		Status string  `json:"status" binding:"required"`
		Notes  *string `json:"notes,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !models.ValidStatus(input.Status) {
		respondError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, ok := findIssue(ctx, c, issueID)
	if !ok {
		return
	}

	if !access.CanAccessIssue(user.Role, user.ID, issue.ReportedBy, issue.Status, access.ActionUpdate) || !access.IsStaff(user.Role) {
		respondError(c, http.StatusForbidden, "You are not authorized to change this issue's status")
		return
	}

	issue.SetStatus(models.IssueStatus(input.Status), time.Now())
	if input.Notes != nil {
		issue.ResolutionNotes = *input.Notes
	}

	update := bson.M{
		"status":    issue.Status,
		"updatedAt": issue.UpdatedAt,
	}
	switch issue.Status {
	case models.StatusAssigned:
		update["assignedAt"] = issue.AssignedAt
	case models.StatusInProgress:
		update["startedAt"] = issue.StartedAt
	case models.StatusResolved:
		update["resolvedAt"] = issue.ResolvedAt
	case models.StatusClosed:
		update["closedAt"] = issue.ClosedAt
	}
	if input.Notes != nil {
		update["resolutionNotes"] = issue.ResolutionNotes
	}

	if _, err := issueCollection.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": update}); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update issue status")
		return
	}

	recordAudit(c, models.AuditIssueStatusChange, &user.ID, "success", map[string]any{
		"issue":  issueID.Hex(),
		"status": issue.Status,
	})
	cache.Invalidate(c, "/api/issues")

	c.JSON(http.StatusOK, gin.H{"success": true, "issue": issue})
}

// AssignIssue creates a pending work order for a technician and marks the
// issue assigned. Committee only.
func AssignIssue(c *gin.Context) {
	issueID, ok := objectIDParam(c)
	if !ok {
		return
	}
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input struct {
		TechnicianID            string  `json:"technicianId" binding:"required"`
		EstimatedCompletionTime *int    `json:"estimatedCompletionTime,omitempty"` // hours
		AssignmentNotes         *string `json:"assignmentNotes,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	technicianID, err := primitive.ObjectIDFromHex(input.TechnicianID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid technician ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, ok := findIssue(ctx, c, issueID)
	if !ok {
		return
	}

	if !access.CanAccessIssue(user.Role, user.ID, issue.ReportedBy, issue.Status, access.ActionAssign) {
		respondError(c, http.StatusForbidden, "You are not authorized to assign this issue")
		return
	}

	var technician models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": technicianID}).Decode(&technician); err != nil {
		respondError(c, http.StatusNotFound, "Technician not found")
		return
	}
	if technician.Role != models.RoleTechnician {
		respondError(c, http.StatusBadRequest, "Assignee must be a technician")
		return
	}

	now := time.Now()
	notes := ""
	if input.AssignmentNotes != nil {
		notes = *input.AssignmentNotes
	}

	assignment := models.Assignment{
		ID:         primitive.NewObjectID(),
		Issue:      issueID,
		Technician: technicianID,
		AssignedBy: user.ID,
		Status:     models.AssignmentPending,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.EstimatedCompletionTime != nil {
		minutes := *input.EstimatedCompletionTime * 60
		assignment.EstimatedDuration = &minutes
	}

	if _, err := assignmentCollection.InsertOne(ctx, assignment); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create assignment")
		return
	}

	issue.SetStatus(models.StatusAssigned, now)
	issue.AssignedTo = &technicianID
	issue.AssignmentNotes = notes
	issue.EstimatedCompletionTime = input.EstimatedCompletionTime

	update := bson.M{
		"status":          issue.Status,
		"assignedTo":      technicianID,
		"assignmentNotes": notes,
		"assignedAt":      issue.AssignedAt,
		"updatedAt":       issue.UpdatedAt,
	}
	if input.EstimatedCompletionTime != nil {
		update["estimatedCompletionTime"] = *input.EstimatedCompletionTime
	}

	if _, err := issueCollection.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": update}); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update issue")
		return
	}

	recordAudit(c, models.AuditIssueAssigned, &user.ID, "success", map[string]any{
		"issue":      issueID.Hex(),
		"technician": technicianID.Hex(),
	})
	cache.Invalidate(c, "/api/issues")
	cache.Invalidate(c, "/api/assignments")

	c.JSON(http.StatusCreated, gin.H{"success": true, "assignment": assignment, "issue": issue})
}
