package middlewares

import (
	"context"
	"net/http"
	"time"

	"societysync-be/config"
	"societysync-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireRoles loads the authenticated user and rejects the request unless
// their role is in the allowed set. The loaded user is stored under
// "current_user" so controllers do not look it up again.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
			c.Abort()
			return
		}

		userID, ok := userIDVal.(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
			c.Abort()
			return
		}

		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user ID"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var user models.User
		if err := config.GetCollection("users").FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not found"})
			c.Abort()
			return
		}

		if len(allowed) > 0 && !allowed[user.Role] {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not have permission to perform this action"})
			c.Abort()
			return
		}

		c.Set("current_user", user)
		c.Next()
	}
}

// CurrentUser returns the user loaded by RequireRoles.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get("current_user")
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
