package controllers

import (
	"context"
	"net/http"
	"time"

	"societysync-be/models"
	"societysync-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// loadIssuesForDetection fetches every issue for a detection run. A failed
// read fails the whole run; no partial group list is ever produced.
func loadIssuesForDetection(ctx context.Context) ([]models.Issue, error) {
	cursor, err := issueCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// GetRecurringAlerts returns the dashboard alerts: category/location groups
// whose recent issue count clears the recurrence threshold. Recomputed fresh
// on every call.
func GetRecurringAlerts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := loadIssuesForDetection(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to run recurring issue detection")
		return
	}

	groups := services.DetectRecurring(issues, time.Now(), services.RecurrenceWindow)

	alerts := make([]services.RecurringAlert, 0, len(groups))
	for _, g := range groups {
		if g.IsAlert() {
			alerts = append(alerts, g)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "alerts": alerts})
}

// DetectRecurringIssues runs a full detection pass and returns every group
// that meets the minimum size, including low-severity ones, for committee
// review.
func DetectRecurringIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := loadIssuesForDetection(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to run recurring issue detection")
		return
	}

	groups := services.DetectRecurring(issues, time.Now(), services.RecurrenceWindow)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"groups":        groups,
		"issuesScanned": len(issues),
	})
}
