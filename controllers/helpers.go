package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"societysync-be/config"
	"societysync-be/models"
	"societysync-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var auditCollection *mongo.Collection = config.GetCollection("audit_logs")

var (
	errInvalidScore  = errors.New("rating score must be between 1 and 5")
	errNotTechnician = errors.New("only technicians can be rated")
)

var translator = services.NewTranslator()

// respondError writes the uniform error envelope. The message is translated
// into the request language when one was detected; translation failures fall
// back to the original English text.
func respondError(c *gin.Context, status int, message string) {
	if lang := c.GetString("lang"); lang != "" && lang != "en" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if translated, err := translator.Translate(ctx, message, lang); err == nil {
			message = translated
		}
	}
	c.JSON(status, gin.H{"success": false, "message": message})
}

// recordAudit appends an entry to the audit ledger. Audit writes never fail
// the request; errors are logged and dropped.
func recordAudit(c *gin.Context, action string, actor *primitive.ObjectID, outcome string, details map[string]any) {
	entry := models.AuditLog{
		Action:    action,
		Actor:     actor,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Outcome:   outcome,
		Details:   details,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := auditCollection.InsertOne(ctx, entry); err != nil {
		log.Printf("audit write failed for action %s: %v", action, err)
	}
}

// objectIDParam parses the :id route parameter, writing a 400 on bad input.
func objectIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ID format")
		return primitive.NilObjectID, false
	}
	return id, true
}
